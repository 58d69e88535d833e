package model

// Market status values used for bucketing.
const MarketStatusOpen = "open"

// Position is the client-facing view of one outstanding stake in a binary
// market. All monetary fields are floating-point dollars.
type Position struct {
	Pubkey       string  `json:"pubkey"`
	MarketID     string  `json:"marketId"`
	MarketTitle  string  `json:"marketTitle"`
	MarketStatus string  `json:"marketStatus"`
	MarketResult string  `json:"marketResult"`
	IsYes        bool    `json:"isYes"`
	Contracts    float64 `json:"contracts"`
	TotalCost    float64 `json:"totalCost"`
	AvgPrice     float64 `json:"avgPrice"`
	Value        float64 `json:"value"`
	MarkPrice    float64 `json:"markPrice"`
	Pnl          float64 `json:"pnl"`
	PnlPercent   float64 `json:"pnlPercent"`
	PnlAfterFees float64 `json:"pnlAfterFees"`
	RealizedPnl  float64 `json:"realizedPnl"`
	FeesPaid     float64 `json:"feesPaid"`
	Claimable    bool    `json:"claimable"`
	Claimed      bool    `json:"claimed"`
	Payout       float64 `json:"payout"`
	OpenedAt     string  `json:"openedAt"`
}

// ReadyToClaim reports whether the position is a settled winner whose payout
// has not been collected yet.
func (p Position) ReadyToClaim() bool {
	return p.Claimable && !p.Claimed
}

// Active reports whether the position is in a still-open market and not yet
// claimable.
func (p Position) Active() bool {
	return p.MarketStatus == MarketStatusOpen && !p.Claimable
}
