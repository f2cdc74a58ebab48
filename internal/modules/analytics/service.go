package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/aghamazing/quest-core/internal/models"
)

const (
	summaryWindow = 30 * 24 * time.Hour
	dailyWindow   = 7 * 24 * time.Hour
	topPagesLimit = 5
)

type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

type PageCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

type RoleCount struct {
	Role  string `json:"role"`
	Count int64  `json:"count"`
}

type StatusCount struct {
	Status  models.ContentStatus `json:"status"`
	Count   int64                `json:"count"`
	Percent float64              `json:"percent"`
}

// Snapshot is the dashboard payload. Every field is recomputed from the raw
// event tables on each call.
type Snapshot struct {
	GeneratedAt        time.Time   `json:"generated_at"`
	TotalViews         int64       `json:"total_views"`
	UniqueVisitors     int64       `json:"unique_visitors"`
	TotalActivities    int64       `json:"total_activities"`
	InteractionsByType []TypeCount `json:"interactions_by_type"`
	DailyActivity      []DayCount  `json:"daily_activity"`
	TopPages           []PageCount `json:"top_pages"`
	ActivityByRole     []RoleCount `json:"activity_by_role"`

	ContentByStatus []StatusCount `json:"content_by_status"`
	PendingReview   int64         `json:"pending_review"`
	TotalUsers      int64         `json:"total_users"`
}

// InteractionSink receives the interaction events the read path produces.
// *Recorder is the production implementation.
type InteractionSink interface {
	Interaction(contentID, userID, kind, ip string)
}

type Service struct {
	store  Store
	events InteractionSink
}

func NewService(store Store, events InteractionSink) *Service {
	return &Service{store: store, events: events}
}

// Snapshot aggregates the dashboard from scratch. Event volume is assumed
// small relative to a dashboard refresh; there is no materialization.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	now := time.Now().UTC()
	since := now.Add(-summaryWindow)
	dailySince := now.Add(-dailyWindow)

	out := &Snapshot{GeneratedAt: now}

	views, err := s.store.PageViews(ctx, since)
	if err != nil {
		return nil, err
	}
	out.TotalViews = int64(len(views))
	// distinct IPs stand in for unique visitors
	visitors := map[string]struct{}{}
	pages := map[string]int64{}
	for _, v := range views {
		visitors[v.IPAddress] = struct{}{}
		pages[v.Path]++
	}
	out.UniqueVisitors = int64(len(visitors))
	out.TopPages = topPages(pages, topPagesLimit)

	acts, err := s.store.Activities(ctx, since)
	if err != nil {
		return nil, err
	}
	out.TotalActivities = int64(len(acts))
	out.DailyActivity = dailyBuckets(acts, dailySince)
	out.ActivityByRole = roleCounts(acts)

	inters, err := s.store.Interactions(ctx, since)
	if err != nil {
		return nil, err
	}
	out.InteractionsByType = typeCounts(inters)

	statuses, err := s.store.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	out.ContentByStatus, out.PendingReview = statusBreakdown(statuses)

	out.TotalUsers, err = s.store.UserCount(ctx)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func topPages(counts map[string]int64, limit int) []PageCount {
	out := make([]PageCount, 0, len(counts))
	for path, n := range counts {
		out = append(out, PageCount{Path: path, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Path < out[j].Path
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func dailyBuckets(acts []ActivityRow, since time.Time) []DayCount {
	byDay := map[string]int64{}
	for _, a := range acts {
		if a.Timestamp.Before(since) {
			continue
		}
		byDay[a.Timestamp.UTC().Format("2006-01-02")]++
	}
	out := make([]DayCount, 0, len(byDay))
	for day, n := range byDay {
		out = append(out, DayCount{Day: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// roleCounts groups activity by the actor's role. Users without a role are
// left out; they still count toward the activity total.
func roleCounts(acts []ActivityRow) []RoleCount {
	byRole := map[string]int64{}
	for _, a := range acts {
		if a.Role == "" {
			continue
		}
		byRole[a.Role]++
	}
	out := make([]RoleCount, 0, len(byRole))
	for role, n := range byRole {
		out = append(out, RoleCount{Role: role, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Role < out[j].Role
	})
	return out
}

func typeCounts(inters []models.ContentInteractionModel) []TypeCount {
	byType := map[string]int64{}
	for _, it := range inters {
		byType[it.InteractionType]++
	}
	out := make([]TypeCount, 0, len(byType))
	for kind, n := range byType {
		out = append(out, TypeCount{Type: kind, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func statusBreakdown(rows []StatusCount) ([]StatusCount, int64) {
	var total int64
	for _, r := range rows {
		total += r.Count
	}
	var pending int64
	out := make([]StatusCount, len(rows))
	for i, r := range rows {
		if total > 0 {
			r.Percent = float64(r.Count) * 100 / float64(total)
		}
		if r.Status == models.StatusPendingReview {
			pending = r.Count
		}
		out[i] = r
	}
	return out, pending
}

// TrackView bumps a content item's denormalized counters and emits an
// interaction event. Used by the public content read path.
func (s *Service) TrackView(ctx context.Context, contentID, userID, ip string) error {
	if err := s.store.IncrementView(ctx, contentID, time.Now().UTC()); err != nil {
		return err
	}
	s.events.Interaction(contentID, userID, "view", ip)
	return nil
}

// ContentStats returns the denormalized read-model for one content item.
func (s *Service) ContentStats(ctx context.Context, contentID string) (*models.ContentAnalytics, error) {
	return s.store.ContentAnalytics(ctx, contentID)
}
