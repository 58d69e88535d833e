package model

// History event kinds reported by the upstream.
const (
	EventOrderCreated    = "order_created"
	EventOrderClosed     = "order_closed"
	EventOrderFilled     = "order_filled"
	EventOrderFailed     = "order_failed"
	EventPayoutClaimed   = "payout_claimed"
	EventPositionUpdated = "position_updated"
	EventPositionLost    = "position_lost"
)

// HistoryEvent is one immutable account-activity entry, append-only from this
// system's perspective.
type HistoryEvent struct {
	ID              string  `json:"id"`
	EventType       string  `json:"eventType"`
	Signature       string  `json:"signature"`
	Timestamp       string  `json:"timestamp"`
	MarketTitle     string  `json:"marketTitle"`
	IsYes           bool    `json:"isYes"`
	IsBuy           bool    `json:"isBuy"`
	Contracts       float64 `json:"contracts"`
	FilledContracts float64 `json:"filledContracts"`
	AvgFillPrice    float64 `json:"avgFillPrice"`
	TotalCost       float64 `json:"totalCost"`
	Fee             float64 `json:"fee"`
	RealizedPnl     float64 `json:"realizedPnl"`
	PayoutAmount    float64 `json:"payoutAmount"`
}

// PnlPoint is a single (timestamp, realized PnL) sample of the PnL time
// series, ordered ascending by timestamp upstream.
type PnlPoint struct {
	Timestamp   string  `json:"timestamp"`
	RealizedPnl float64 `json:"realizedPnl"`
}
