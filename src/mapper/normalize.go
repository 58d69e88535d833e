package mapper

import (
	"github.com/shopspring/decimal"

	"oddslens/src/externalmodel"
)

// The market API reports USD values as fixed-point integers where
// 1,000,000 = $1.00 (USDC 6 decimals).
var usdScale = decimal.NewFromInt(1_000_000)

// ToDollars converts a fixed-point USD amount into floating-point dollars.
// Malformed tokens coerce to NaN and propagate; the upstream is trusted.
func ToDollars(v externalmodel.FlexNumber) float64 {
	d, err := decimal.NewFromString(string(v))
	if err != nil {
		return v.Float64()
	}
	return d.Div(usdScale).InexactFloat64()
}

// ToIsoTime converts a Unix-seconds timestamp (number or numeric string) into
// an ISO-8601 string.
func ToIsoTime(v externalmodel.FlexTime) string {
	return v.Iso()
}
