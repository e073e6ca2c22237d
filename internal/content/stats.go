package content

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Event kinds tracked in the daily visitor counters.
const (
	EventPageView      = "page_view"
	EventUniqueVisitor = "unique_visitor"
	EventBlogView      = "blog_view"
	EventChatTurn      = "chat_turn"
)

func statsColumn(kind string) (string, bool) {
	switch kind {
	case EventPageView:
		return "page_views", true
	case EventUniqueVisitor:
		return "unique_visitors", true
	case EventBlogView:
		return "blog_views", true
	case EventChatTurn:
		return "chat_turns", true
	}
	return "", false
}

// TrackEvent increments the counter for kind on today's row, creating the row
// when the day has no record yet.
func (s *Store) TrackEvent(ctx context.Context, kind string) error {
	col, ok := statsColumn(kind)
	if !ok {
		return fmt.Errorf("unknown tracking event %q", kind)
	}
	today := time.Now().UTC().Format("2006-01-02")
	q := fmt.Sprintf(
		`INSERT INTO visitor_stats (date, %s) VALUES (?, 1)
		 ON CONFLICT(date) DO UPDATE SET %s = %s + 1`, col, col, col)
	if _, err := s.db.ExecContext(ctx, q, today); err != nil {
		return fmt.Errorf("track %s: %w", kind, err)
	}
	return nil
}

// StatsTotals sums the counters over all recorded days.
func (s *Store) StatsTotals(ctx context.Context) (DayStats, error) {
	var t DayStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(page_views), 0), COALESCE(SUM(unique_visitors), 0),
			COALESCE(SUM(blog_views), 0), COALESCE(SUM(chat_turns), 0)
		 FROM visitor_stats`).
		Scan(&t.PageViews, &t.UniqueVisitors, &t.BlogViews, &t.ChatTurns)
	if err != nil {
		return DayStats{}, fmt.Errorf("stats totals: %w", err)
	}
	return t, nil
}

// RecentStats returns per-day counters for the last n days, oldest first.
func (s *Store) RecentStats(ctx context.Context, days int) ([]DayStats, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, page_views, unique_visitors, blog_views, chat_turns
		 FROM visitor_stats WHERE date >= ? ORDER BY date ASC`, since)
	if err != nil {
		return nil, fmt.Errorf("recent stats: %w", err)
	}
	defer rows.Close()

	var out []DayStats
	for rows.Next() {
		var d DayStats
		if err := rows.Scan(&d.Date, &d.PageViews, &d.UniqueVisitors, &d.BlogViews, &d.ChatTurns); err != nil {
			return nil, fmt.Errorf("scan stats row: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// StatsFor returns a single day's counters, zero-valued when the day has no
// record.
func (s *Store) StatsFor(ctx context.Context, day time.Time) (DayStats, error) {
	date := day.UTC().Format("2006-01-02")
	d := DayStats{Date: date}
	err := s.db.QueryRowContext(ctx,
		`SELECT page_views, unique_visitors, blog_views, chat_turns FROM visitor_stats WHERE date = ?`, date).
		Scan(&d.PageViews, &d.UniqueVisitors, &d.BlogViews, &d.ChatTurns)
	if err == sql.ErrNoRows {
		return d, nil
	}
	if err != nil {
		return DayStats{}, fmt.Errorf("stats for %s: %w", date, err)
	}
	return d, nil
}
