package scheduler

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/edge-calibrator/internal/models"
	"github.com/yourusername/edge-calibrator/internal/pricing"
)

// SlatePricer prices a slate of games
type SlatePricer interface {
	PriceSlate(ctx context.Context, league models.League, quotes []pricing.GameQuote) *pricing.SlateResult
}

// NewSlateWarmJob returns a job that reloads the slate file on every run and prices it,
// which warms the calibration cache for every team on the slate. The file's league
// wins over defaultLeague when set.
func NewSlateWarmJob(pricer SlatePricer, slatePath string, defaultLeague models.League, logger *logrus.Logger) Job {
	return func(ctx context.Context) error {
		slate, err := pricing.LoadSlateFile(slatePath)
		if err != nil {
			return err
		}

		league := defaultLeague
		if slate.League != "" {
			if league, err = models.ParseLeague(slate.League); err != nil {
				return err
			}
		}
		if len(slate.Games) == 0 {
			logger.WithField("slate", slatePath).Warn("Slate is empty, nothing to warm")
			return nil
		}

		res := pricer.PriceSlate(ctx, league, slate.Games)
		if res == nil {
			return fmt.Errorf("pricing returned no result for %s", slatePath)
		}

		bets := 0
		for _, g := range res.Games {
			for _, side := range []*pricing.SideEvaluation{g.Home, g.Away} {
				if side != nil && side.Stake.IsBet() {
					bets++
				}
			}
		}
		logger.WithFields(logrus.Fields{
			"request_id":    res.RequestID,
			"league":        league,
			"games":         len(res.Games),
			"warm_failures": len(res.Failures),
			"bets":          bets,
		}).Info("Slate priced")
		return nil
	}
}
