package model

// Profile is the aggregate account statistics view.
type Profile struct {
	RealizedPnl          float64 `json:"realizedPnl"`
	TotalVolume          float64 `json:"totalVolume"`
	PredictionsCount     int     `json:"predictionsCount"`
	CorrectPredictions   int     `json:"correctPredictions"`
	WrongPredictions     int     `json:"wrongPredictions"`
	WinRate              float64 `json:"winRate"`
	TotalActiveContracts float64 `json:"totalActiveContracts"`
	TotalPositionsValue  float64 `json:"totalPositionsValue"`
}

// DefaultProfile is the all-zero profile substituted when the upstream has no
// record of the wallet yet.
func DefaultProfile() Profile {
	return Profile{}
}
