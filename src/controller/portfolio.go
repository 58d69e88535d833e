package controller

import (
	logger "github.com/sirupsen/logrus"

	"oddslens/src/model"
)

// Buckets splits a wallet's positions into the three groups the dashboard
// renders. Every position lands in exactly one bucket.
type Buckets struct {
	Claimable []model.Position `json:"claimable"`
	Active    []model.Position `json:"active"`
	Settled   []model.Position `json:"settled"`
}

// BucketPositions assigns each position to claimable, active or settled.
// Claimable wins over active when both predicates would match; anything
// neither claimable nor in an open market is settled.
func BucketPositions(positions []model.Position) Buckets {
	b := Buckets{
		Claimable: []model.Position{},
		Active:    []model.Position{},
		Settled:   []model.Position{},
	}
	for _, p := range positions {
		switch {
		case p.ReadyToClaim():
			b.Claimable = append(b.Claimable, p)
		case p.Active():
			b.Active = append(b.Active, p)
		default:
			b.Settled = append(b.Settled, p)
		}
	}
	return b
}

// Total returns the number of positions across all buckets.
func (b Buckets) Total() int {
	return len(b.Claimable) + len(b.Active) + len(b.Settled)
}

// Paginate slices one page out of a bucket. Pages are 1-based; a page past
// the end returns an empty slice, never an error.
func Paginate(positions []model.Position, page, pageSize int) []model.Position {
	if pageSize < 1 {
		pageSize = GetConfig().PageSize
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(positions) {
		return []model.Position{}
	}
	end := start + pageSize
	if end > len(positions) {
		end = len(positions)
	}
	return positions[start:end]
}

// Notifier receives alerts when positions in a watched wallet become
// claimable. Implementations decide the delivery channel.
type Notifier interface {
	NotifyClaimable(wallet string, positions []model.Position)
}

// LogNotifier writes claimable alerts to the application log.
type LogNotifier struct{}

func (LogNotifier) NotifyClaimable(wallet string, positions []model.Position) {
	total := 0.0
	for _, p := range positions {
		total += p.Payout
	}
	logger.WithFields(map[string]interface{}{
		"wallet":    wallet,
		"positions": len(positions),
		"payout":    total,
	}).Info("claimable winnings detected")
}
