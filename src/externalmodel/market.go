package externalmodel

// Raw payload shapes returned by the upstream prediction-market API. USD
// amounts are fixed-point integers scaled by 1,000,000 and may arrive as
// numbers or numeric strings, hence FlexNumber.

// EventMetadata is the event-level metadata block attached to positions and
// history events.
type EventMetadata struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// MarketMetadata is the market-level metadata block.
type MarketMetadata struct {
	Title  string `json:"title"`
	Status string `json:"status"`
	Result string `json:"result"`
}

// RawPosition is one outstanding stake in a binary market as the upstream
// reports it.
type RawPosition struct {
	Pubkey                 string          `json:"pubkey"`
	OwnerPubkey            string          `json:"ownerPubkey"`
	MarketID               string          `json:"marketId"`
	IsYes                  bool            `json:"isYes"`
	Contracts              FlexNumber      `json:"contracts"`
	TotalCostUsd           FlexNumber      `json:"totalCostUsd"`
	AvgPriceUsd            FlexNumber      `json:"avgPriceUsd"`
	ValueUsd               FlexNumber      `json:"valueUsd"`
	MarkPriceUsd           FlexNumber      `json:"markPriceUsd"`
	SellPriceUsd           FlexNumber      `json:"sellPriceUsd"`
	PnlUsd                 FlexNumber      `json:"pnlUsd"`
	PnlUsdPercent          FlexNumber      `json:"pnlUsdPercent"`
	PnlUsdAfterFees        FlexNumber      `json:"pnlUsdAfterFees"`
	PnlUsdAfterFeesPercent FlexNumber      `json:"pnlUsdAfterFeesPercent"`
	FeesPaidUsd            FlexNumber      `json:"feesPaidUsd"`
	RealizedPnlUsd         FlexNumber      `json:"realizedPnlUsd"`
	Claimable              bool            `json:"claimable"`
	Claimed                bool            `json:"claimed"`
	ClaimedUsd             FlexNumber      `json:"claimedUsd"`
	PayoutUsd              FlexNumber      `json:"payoutUsd"`
	OpenedAt               FlexTime        `json:"openedAt"`
	UpdatedAt              FlexTime        `json:"updatedAt"`
	ClaimableAt            FlexTime        `json:"claimableAt"`
	SettlementDate         FlexTime        `json:"settlementDate"`
	EventID                string          `json:"eventId"`
	EventMetadata          *EventMetadata  `json:"eventMetadata"`
	MarketMetadata         *MarketMetadata `json:"marketMetadata"`
}

// RawProfile is the aggregate account statistics record.
type RawProfile struct {
	OwnerPubkey            string     `json:"ownerPubkey"`
	RealizedPnlUsd         FlexNumber `json:"realizedPnlUsd"`
	TotalVolumeUsd         FlexNumber `json:"totalVolumeUsd"`
	PredictionsCount       int        `json:"predictionsCount"`
	CorrectPredictions     int        `json:"correctPredictions"`
	WrongPredictions       int        `json:"wrongPredictions"`
	TotalActiveContracts   FlexNumber `json:"totalActiveContracts"`
	TotalPositionsValueUsd FlexNumber `json:"totalPositionsValueUsd"`
}

// RawHistoryEvent is one immutable account-activity log entry.
type RawHistoryEvent struct {
	ID              string          `json:"id"`
	EventType       string          `json:"eventType"`
	Signature       string          `json:"signature"`
	Timestamp       FlexTime        `json:"timestamp"`
	MarketID        string          `json:"marketId"`
	OwnerPubkey     string          `json:"ownerPubkey"`
	IsYes           bool            `json:"isYes"`
	IsBuy           bool            `json:"isBuy"`
	Contracts       FlexNumber      `json:"contracts"`
	FilledContracts FlexNumber      `json:"filledContracts"`
	AvgFillPriceUsd FlexNumber      `json:"avgFillPriceUsd"`
	TotalCostUsd    FlexNumber      `json:"totalCostUsd"`
	FeeUsd          FlexNumber      `json:"feeUsd"`
	RealizedPnl     FlexNumber      `json:"realizedPnl"`
	PayoutAmountUsd FlexNumber      `json:"payoutAmountUsd"`
	MarketMetadata  *MarketMetadata `json:"marketMetadata"`
	EventMetadata   *EventMetadata  `json:"eventMetadata"`
}

// RawPnlPoint is a single realized-PnL sample.
type RawPnlPoint struct {
	Timestamp      FlexTime   `json:"timestamp"`
	RealizedPnlUsd FlexNumber `json:"realizedPnlUsd"`
}

// PositionsResponse wraps GET /positions.
type PositionsResponse struct {
	Data []RawPosition `json:"data"`
}

// HistoryResponse wraps GET /history.
type HistoryResponse struct {
	Data []RawHistoryEvent `json:"data"`
}

// PnlHistoryResponse wraps GET /profiles/{wallet}/pnl-history.
type PnlHistoryResponse struct {
	OwnerPubkey string        `json:"ownerPubkey"`
	History     []RawPnlPoint `json:"history"`
}

// BuildTransactionResponse wraps the claim and close transaction builders.
// Transaction is the unsigned transaction, base64 encoded.
type BuildTransactionResponse struct {
	Transaction string `json:"transaction"`
	TxMeta      *struct {
		Blockhash            string `json:"blockhash"`
		LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
	} `json:"txMeta,omitempty"`
}
