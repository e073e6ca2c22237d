package analytics

import (
	"context"
	"fmt"
	"time"

	"portfolio-server/internal/content"
)

// StatsResponse is the aggregated payload served to the admin dashboard.
type StatsResponse struct {
	TotalPageViews      int                `json:"totalPageViews"`
	TotalUniqueVisitors int                `json:"totalUniqueVisitors"`
	TotalBlogViews      int                `json:"totalBlogViews"`
	TotalChatTurns      int                `json:"totalChatTurns"`
	RecentStats         []content.DayStats `json:"recentStats"`
}

type Service struct {
	store *content.Store
}

func New(store *content.Store) *Service {
	return &Service{store: store}
}

func (s *Service) Track(ctx context.Context, kind string) error {
	return s.store.TrackEvent(ctx, kind)
}

// Stats aggregates all-time totals plus per-day counters for the last week.
func (s *Service) Stats(ctx context.Context) (StatsResponse, error) {
	totals, err := s.store.StatsTotals(ctx)
	if err != nil {
		return StatsResponse{}, err
	}
	recent, err := s.store.RecentStats(ctx, 7)
	if err != nil {
		return StatsResponse{}, err
	}
	return StatsResponse{
		TotalPageViews:      totals.PageViews,
		TotalUniqueVisitors: totals.UniqueVisitors,
		TotalBlogViews:      totals.BlogViews,
		TotalChatTurns:      totals.ChatTurns,
		RecentStats:         recent,
	}, nil
}

// DailyDigest renders a plain-text summary of one day's traffic for the
// admin notifier.
func (s *Service) DailyDigest(ctx context.Context, day time.Time) (string, error) {
	d, err := s.store.StatsFor(ctx, day)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"📊 Daily report for %s\nPage views: %d\nUnique visitors: %d\nBlog views: %d\nChat turns: %d",
		d.Date, d.PageViews, d.UniqueVisitors, d.BlogViews, d.ChatTurns), nil
}
