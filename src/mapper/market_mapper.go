package mapper

import (
	"oddslens/src/externalmodel"
	"oddslens/src/model"
)

const unknownMarketTitle = "Unknown Market"

// resolveTitle prefers the event-level title over the market-level one.
func resolveTitle(event *externalmodel.EventMetadata, market *externalmodel.MarketMetadata) string {
	if event != nil && event.Title != "" {
		return event.Title
	}
	if market != nil && market.Title != "" {
		return market.Title
	}
	return unknownMarketTitle
}

// MapPositionToModel converts an upstream position record into the client
// view model, normalizing all fixed-point USD amounts.
func MapPositionToModel(raw externalmodel.RawPosition) model.Position {
	status := "unknown"
	result := ""
	if raw.MarketMetadata != nil {
		status = raw.MarketMetadata.Status
		result = raw.MarketMetadata.Result
	}

	return model.Position{
		Pubkey:       raw.Pubkey,
		MarketID:     raw.MarketID,
		MarketTitle:  resolveTitle(raw.EventMetadata, raw.MarketMetadata),
		MarketStatus: status,
		MarketResult: result,
		IsYes:        raw.IsYes,
		Contracts:    raw.Contracts.Float64(),
		TotalCost:    ToDollars(raw.TotalCostUsd),
		AvgPrice:     ToDollars(raw.AvgPriceUsd),
		Value:        ToDollars(raw.ValueUsd),
		MarkPrice:    ToDollars(raw.MarkPriceUsd),
		Pnl:          ToDollars(raw.PnlUsd),
		PnlPercent:   raw.PnlUsdPercent.Float64(),
		PnlAfterFees: ToDollars(raw.PnlUsdAfterFees),
		RealizedPnl:  ToDollars(raw.RealizedPnlUsd),
		FeesPaid:     ToDollars(raw.FeesPaidUsd),
		Claimable:    raw.Claimable,
		Claimed:      raw.Claimed,
		Payout:       ToDollars(raw.PayoutUsd),
		OpenedAt:     ToIsoTime(raw.OpenedAt),
	}
}

// MapProfileToModel converts the aggregate profile record. The win rate is
// derived here, guarding the zero-denominator case for wallets with no
// predictions yet.
func MapProfileToModel(raw externalmodel.RawProfile) model.Profile {
	total := raw.CorrectPredictions + raw.WrongPredictions
	winRate := 0.0
	if total > 0 {
		winRate = float64(raw.CorrectPredictions) / float64(total)
	}

	return model.Profile{
		RealizedPnl:          ToDollars(raw.RealizedPnlUsd),
		TotalVolume:          ToDollars(raw.TotalVolumeUsd),
		PredictionsCount:     raw.PredictionsCount,
		CorrectPredictions:   raw.CorrectPredictions,
		WrongPredictions:     raw.WrongPredictions,
		WinRate:              winRate,
		TotalActiveContracts: raw.TotalActiveContracts.Float64(),
		TotalPositionsValue:  ToDollars(raw.TotalPositionsValueUsd),
	}
}

// MapHistoryEventToModel converts one account-activity log entry.
func MapHistoryEventToModel(raw externalmodel.RawHistoryEvent) model.HistoryEvent {
	return model.HistoryEvent{
		ID:              raw.ID,
		EventType:       raw.EventType,
		Signature:       raw.Signature,
		Timestamp:       ToIsoTime(raw.Timestamp),
		MarketTitle:     resolveTitle(raw.EventMetadata, raw.MarketMetadata),
		IsYes:           raw.IsYes,
		IsBuy:           raw.IsBuy,
		Contracts:       raw.Contracts.Float64(),
		FilledContracts: raw.FilledContracts.Float64(),
		AvgFillPrice:    ToDollars(raw.AvgFillPriceUsd),
		TotalCost:       ToDollars(raw.TotalCostUsd),
		Fee:             ToDollars(raw.FeeUsd),
		RealizedPnl:     ToDollars(raw.RealizedPnl),
		PayoutAmount:    ToDollars(raw.PayoutAmountUsd),
	}
}

// MapPnlPointToModel converts a single PnL series sample.
func MapPnlPointToModel(raw externalmodel.RawPnlPoint) model.PnlPoint {
	return model.PnlPoint{
		Timestamp:   ToIsoTime(raw.Timestamp),
		RealizedPnl: ToDollars(raw.RealizedPnlUsd),
	}
}

// MapPositionsToModel converts a position list, always returning a non-nil
// slice so the JSON response renders [] rather than null.
func MapPositionsToModel(raw []externalmodel.RawPosition) []model.Position {
	out := make([]model.Position, 0, len(raw))
	for _, r := range raw {
		out = append(out, MapPositionToModel(r))
	}
	return out
}

// MapHistoryToModel converts a history list.
func MapHistoryToModel(raw []externalmodel.RawHistoryEvent) []model.HistoryEvent {
	out := make([]model.HistoryEvent, 0, len(raw))
	for _, r := range raw {
		out = append(out, MapHistoryEventToModel(r))
	}
	return out
}

// MapPnlPointsToModel converts a PnL series.
func MapPnlPointsToModel(raw []externalmodel.RawPnlPoint) []model.PnlPoint {
	out := make([]model.PnlPoint, 0, len(raw))
	for _, r := range raw {
		out = append(out, MapPnlPointToModel(r))
	}
	return out
}
