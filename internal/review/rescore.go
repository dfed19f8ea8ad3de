package review

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/database"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/moderation"
)

// RescoreSummary counts how pending reviews were re-decided
type RescoreSummary struct {
	Checked  int `json:"checked"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}

// Rescore re-moderates every pending review with its author's current
// history. Reviews are never deleted here; a rejected outcome only changes
// the status. limit caps how many reviews are checked (0 means all).
func (s *Service) Rescore(ctx context.Context, limit int) (*RescoreSummary, error) {
	pending := moderation.StatusPending
	reviews, err := s.store.ListReviews(ctx, database.ReviewListOptions{Status: &pending, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending reviews: %w", err)
	}

	var mu sync.Mutex
	summary := &RescoreSummary{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.rescoreN)

	for i := range reviews {
		r := &reviews[i]
		g.Go(func() error {
			history, err := s.store.UserReviewHistory(gctx, r.UserID)
			if err != nil {
				return err
			}
			// the review itself is counted as pending
			if history.Total > 0 {
				history.Total--
			}

			res := s.moderator.Moderate(r.Candidate(), history)
			r.ApplyModeration(res)
			if err := s.store.UpdateReviewModeration(gctx, r); err != nil {
				return fmt.Errorf("failed to update review %s: %w", r.ID, err)
			}

			mu.Lock()
			defer mu.Unlock()
			summary.Checked++
			switch res.Status {
			case moderation.StatusApproved:
				summary.Approved++
			case moderation.StatusRejected:
				summary.Rejected++
			default:
				summary.Pending++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}

	s.logger.Info("pending reviews rescored",
		zap.Int("checked", summary.Checked),
		zap.Int("approved", summary.Approved),
		zap.Int("rejected", summary.Rejected),
	)
	return summary, nil
}
