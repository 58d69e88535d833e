package watcher

import (
	"context"
	"errors"
	"time"

	logger "github.com/sirupsen/logrus"

	"oddslens/src/controller"
	"oddslens/src/externalmodel"
	"oddslens/src/mapper"
	"oddslens/src/model"
)

type positionsFetcher interface {
	Positions(ctx context.Context, wallet string) ([]externalmodel.RawPosition, error)
}

type broadcaster interface {
	Broadcast(messageType string, data interface{})
}

// Watcher polls the watched wallet's portfolio on a fixed period, pushes each
// snapshot to the stream hub and alerts the notifier when positions become
// claimable.
type Watcher struct {
	api      positionsFetcher
	hub      broadcaster
	notifier controller.Notifier
	wallet   string

	// pubkeys already reported as claimable, so reconnecting clients are
	// not re-alerted every tick
	alerted map[string]bool
}

func New(api positionsFetcher, hub broadcaster, notifier controller.Notifier, wallet string) *Watcher {
	return &Watcher{
		api:      api,
		hub:      hub,
		notifier: notifier,
		wallet:   wallet,
		alerted:  make(map[string]bool),
	}
}

// StartLoop polls until the context is cancelled. A failed poll logs and
// waits for the next tick; the loop only stops on cancellation.
func StartLoop(ctx context.Context, api positionsFetcher, hub broadcaster, notifier controller.Notifier) error {
	config := GetConfig()

	if config.WatchWallet == "" {
		return errors.New("watch_wallet not set")
	}

	w := New(api, hub, notifier, config.WatchWallet)

	ticker := time.NewTicker(config.WatchPeriod)
	defer ticker.Stop()

	logger.WithFields(map[string]interface{}{
		"wallet": config.WatchWallet,
		"period": config.WatchPeriod.String(),
	}).Info("portfolio watcher started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("portfolio watcher stopped")
			return nil

		case <-ticker.C:
			if err := w.Tick(ctx); err != nil {
				logger.WithError(err).Error("portfolio poll failed")
			}
		}
	}
}

// Tick runs one poll: fetch, bucket, alert on newly claimable positions and
// broadcast the snapshot.
func (w *Watcher) Tick(ctx context.Context) error {
	raw, err := w.api.Positions(ctx, w.wallet)
	if err != nil {
		return err
	}

	buckets := controller.BucketPositions(mapper.MapPositionsToModel(raw))

	var fresh []model.Position
	for _, p := range buckets.Claimable {
		if !w.alerted[p.Pubkey] {
			w.alerted[p.Pubkey] = true
			fresh = append(fresh, p)
		}
	}
	// A claimed position can become claimable again only as a new position;
	// forget pubkeys that left the claimable bucket.
	current := make(map[string]bool, len(buckets.Claimable))
	for _, p := range buckets.Claimable {
		current[p.Pubkey] = true
	}
	for pubkey := range w.alerted {
		if !current[pubkey] {
			delete(w.alerted, pubkey)
		}
	}

	if len(fresh) > 0 && w.notifier != nil {
		w.notifier.NotifyClaimable(w.wallet, fresh)
	}

	if w.hub != nil {
		w.hub.Broadcast("portfolio", buckets)
	}

	return nil
}
