package utils

import (
	"fmt"
	"math"
)

// FormatUsd renders a dollar amount for display: "$1.50", "-$0.25".
// Values that round to zero render as "$0.00" without a sign.
func FormatUsd(value float64) string {
	if math.Abs(value) < 0.005 {
		return "$0.00"
	}
	sign := ""
	if value < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s$%.2f", sign, math.Abs(value))
}

// FormatPercent renders a 0..1 ratio as a percentage: 0.753 -> "75.3%".
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.1f%%", value*100)
}

// TruncateAddress shortens a public key for display: "7xKp...4mNq".
func TruncateAddress(address string) string {
	if len(address) <= 8 {
		return address
	}
	return address[:4] + "..." + address[len(address)-4:]
}

// SolscanURL returns the explorer link for a transaction signature.
func SolscanURL(signature string) string {
	return "https://solscan.io/tx/" + signature
}
