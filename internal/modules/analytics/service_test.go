package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aghamazing/quest-core/internal/models"
	"github.com/aghamazing/quest-core/internal/pkg/apperr"
)

// memStore holds raw event rows and answers reads the way the SQL layer
// does: everything at or after since.
type memStore struct {
	views    []models.PageViewModel
	acts     []ActivityRow
	inters   []models.ContentInteractionModel
	statuses []StatusCount
	users    int64
	counters map[string]*models.ContentAnalytics
}

func (m *memStore) PageViews(_ context.Context, since time.Time) ([]models.PageViewModel, error) {
	var out []models.PageViewModel
	for _, v := range m.views {
		if !v.Timestamp.Before(since) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memStore) Activities(_ context.Context, since time.Time) ([]ActivityRow, error) {
	var out []ActivityRow
	for _, a := range m.acts {
		if !a.Timestamp.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) Interactions(_ context.Context, since time.Time) ([]models.ContentInteractionModel, error) {
	var out []models.ContentInteractionModel
	for _, it := range m.inters {
		if !it.Timestamp.Before(since) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memStore) StatusCounts(context.Context) ([]StatusCount, error) {
	return m.statuses, nil
}

func (m *memStore) UserCount(context.Context) (int64, error) {
	return m.users, nil
}

func (m *memStore) IncrementView(_ context.Context, id string, at time.Time) error {
	ca, ok := m.counters[id]
	if !ok {
		return ErrNotFound
	}
	ca.ViewCount++
	ca.LastViewedAt = &at
	return nil
}

func (m *memStore) ContentAnalytics(_ context.Context, id string) (*models.ContentAnalytics, error) {
	ca, ok := m.counters[id]
	if !ok {
		return nil, ErrNotFound
	}
	return ca, nil
}

type memSink struct {
	events []string
}

func (m *memSink) Interaction(contentID, userID, kind, ip string) {
	m.events = append(m.events, kind+":"+contentID)
}

func newTestService(store *memStore) (*Service, *memSink) {
	sink := &memSink{}
	return NewService(store, sink), sink
}

func daysAgo(n int) time.Time {
	return time.Now().UTC().Add(-time.Duration(n) * 24 * time.Hour)
}

func pageView(path, ip string, at time.Time) models.PageViewModel {
	pv := models.PageViewModel{Path: path, IPAddress: ip}
	pv.Timestamp = at
	return pv
}

func interaction(kind string, at time.Time) models.ContentInteractionModel {
	m := models.ContentInteractionModel{InteractionType: kind}
	m.Timestamp = at
	return m
}

func TestSnapshotSummaryWindowIsThirtyDays(t *testing.T) {
	store := &memStore{
		views: []models.PageViewModel{
			pageView("/api/markers", "10.0.0.1", daysAgo(29)),
			pageView("/api/markers", "10.0.0.1", daysAgo(31)),
		},
		acts: []ActivityRow{
			{UserID: "u1", Role: models.RoleEditor, Timestamp: daysAgo(29)},
			{UserID: "u1", Role: models.RoleEditor, Timestamp: daysAgo(31)},
		},
		inters: []models.ContentInteractionModel{
			interaction("view", daysAgo(29)),
			interaction("view", daysAgo(31)),
		},
	}
	svc, _ := newTestService(store)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.TotalViews)
	assert.Equal(t, int64(1), snap.TotalActivities)
	require.Len(t, snap.InteractionsByType, 1)
	assert.Equal(t, int64(1), snap.InteractionsByType[0].Count)
}

func TestSnapshotDailyWindowIsSevenDays(t *testing.T) {
	store := &memStore{
		acts: []ActivityRow{
			{UserID: "u1", Role: models.RoleEditor, Timestamp: daysAgo(2)},
			{UserID: "u1", Role: models.RoleEditor, Timestamp: daysAgo(2)},
			{UserID: "u2", Role: models.RoleEncoder, Timestamp: daysAgo(8)},
		},
	}
	svc, _ := newTestService(store)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	// the 8-day-old activity counts toward the 30-day total but falls
	// outside the daily buckets
	assert.Equal(t, int64(3), snap.TotalActivities)
	require.Len(t, snap.DailyActivity, 1)
	assert.Equal(t, daysAgo(2).Format("2006-01-02"), snap.DailyActivity[0].Day)
	assert.Equal(t, int64(2), snap.DailyActivity[0].Count)
}

func TestSnapshotUniqueVisitorsAreDistinctIPs(t *testing.T) {
	store := &memStore{
		views: []models.PageViewModel{
			pageView("/api/markers", "10.0.0.1", daysAgo(1)),
			pageView("/api/challenges", "10.0.0.1", daysAgo(1)),
			pageView("/api/markers", "10.0.0.2", daysAgo(1)),
		},
	}
	svc, _ := newTestService(store)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), snap.TotalViews)
	assert.Equal(t, int64(2), snap.UniqueVisitors)
}

func TestSnapshotTopPagesOrderingAndLimit(t *testing.T) {
	at := daysAgo(1)
	var views []models.PageViewModel
	add := func(path string, n int) {
		for i := 0; i < n; i++ {
			views = append(views, pageView(path, "10.0.0.1", at))
		}
	}
	add("/api/b", 3)
	add("/api/a", 2)
	add("/api/c", 2)
	add("/api/d", 1)
	add("/api/e", 1)
	add("/api/f", 1)

	svc, _ := newTestService(&memStore{views: views})
	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	// ties break alphabetically, and only five pages survive the cut
	want := []PageCount{
		{Path: "/api/b", Count: 3},
		{Path: "/api/a", Count: 2},
		{Path: "/api/c", Count: 2},
		{Path: "/api/d", Count: 1},
		{Path: "/api/e", Count: 1},
	}
	assert.Equal(t, want, snap.TopPages)
}

func TestSnapshotExcludesRolelessUsersFromRoleBreakdown(t *testing.T) {
	store := &memStore{
		acts: []ActivityRow{
			{UserID: "u1", Role: models.RoleEditor, Timestamp: daysAgo(1)},
			{UserID: "u1", Role: models.RoleEditor, Timestamp: daysAgo(1)},
			{UserID: "ghost", Role: "", Timestamp: daysAgo(1)},
		},
	}
	svc, _ := newTestService(store)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), snap.TotalActivities)
	require.Len(t, snap.ActivityByRole, 1)
	assert.Equal(t, models.RoleEditor, snap.ActivityByRole[0].Role)
	assert.Equal(t, int64(2), snap.ActivityByRole[0].Count)
}

func TestSnapshotInteractionTypeOrdering(t *testing.T) {
	at := daysAgo(1)
	store := &memStore{
		inters: []models.ContentInteractionModel{
			interaction("view", at),
			interaction("view", at),
			interaction("like", at),
			interaction("like", at),
			interaction("share", at),
		},
	}
	svc, _ := newTestService(store)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	want := []TypeCount{
		{Type: "like", Count: 2},
		{Type: "view", Count: 2},
		{Type: "share", Count: 1},
	}
	assert.Equal(t, want, snap.InteractionsByType)
}

func TestSnapshotStatusBreakdown(t *testing.T) {
	store := &memStore{
		statuses: []StatusCount{
			{Status: models.StatusDraft, Count: 2},
			{Status: models.StatusPendingReview, Count: 1},
			{Status: models.StatusPublished, Count: 1},
		},
		users: 7,
	}
	svc, _ := newTestService(store)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.ContentByStatus, 3)
	assert.Equal(t, 50.0, snap.ContentByStatus[0].Percent)
	assert.Equal(t, 25.0, snap.ContentByStatus[1].Percent)
	assert.Equal(t, 25.0, snap.ContentByStatus[2].Percent)
	assert.Equal(t, int64(1), snap.PendingReview)
	assert.Equal(t, int64(7), snap.TotalUsers)
}

func TestSnapshotEmptyTables(t *testing.T) {
	svc, _ := newTestService(&memStore{})
	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Zero(t, snap.TotalViews)
	assert.Zero(t, snap.UniqueVisitors)
	assert.Zero(t, snap.PendingReview)
	assert.Empty(t, snap.TopPages)
	assert.Empty(t, snap.ActivityByRole)
}

func TestTrackViewBumpsCounterAndEmitsEvent(t *testing.T) {
	store := &memStore{counters: map[string]*models.ContentAnalytics{
		"c1": {ContentID: "c1"},
	}}
	svc, sink := newTestService(store)

	require.NoError(t, svc.TrackView(context.Background(), "c1", "u1", "10.0.0.1"))
	assert.Equal(t, int64(1), store.counters["c1"].ViewCount)
	assert.NotNil(t, store.counters["c1"].LastViewedAt)
	assert.Equal(t, []string{"view:c1"}, sink.events)
}

func TestTrackViewUnknownContent(t *testing.T) {
	svc, sink := newTestService(&memStore{counters: map[string]*models.ContentAnalytics{}})

	err := svc.TrackView(context.Background(), "nope", "u1", "10.0.0.1")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Empty(t, sink.events)
}

func TestContentStatsUnknownContent(t *testing.T) {
	svc, _ := newTestService(&memStore{counters: map[string]*models.ContentAnalytics{}})

	_, err := svc.ContentStats(context.Background(), "nope")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
