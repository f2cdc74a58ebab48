package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aghamazing/quest-core/internal/models"
	"github.com/aghamazing/quest-core/internal/pkg/apperr"
)

func TestApplyHappyPath(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := &models.ContentModel{Status: models.StatusDraft}

	require.NoError(t, Apply(c, ActionSubmit, "editor-1", now))
	assert.Equal(t, models.StatusPendingReview, c.Status)

	require.NoError(t, Apply(c, ActionReview, "editor-1", now))
	assert.Equal(t, models.StatusReviewed, c.Status)

	require.NoError(t, Apply(c, ActionApprove, "approver-1", now))
	assert.Equal(t, models.StatusApproved, c.Status)
	require.NotNil(t, c.ApprovedByID)
	assert.Equal(t, "approver-1", *c.ApprovedByID)
	require.NotNil(t, c.ApprovedAt)
	assert.Equal(t, now, *c.ApprovedAt)

	require.NoError(t, Apply(c, ActionPublish, "publisher-1", now))
	assert.Equal(t, models.StatusPublished, c.Status)
	require.NotNil(t, c.PublishedAt)
}

func TestApplyApproveStraightFromPending(t *testing.T) {
	c := &models.ContentModel{Status: models.StatusPendingReview}
	require.NoError(t, Apply(c, ActionApprove, "approver-1", time.Now()))
	assert.Equal(t, models.StatusApproved, c.Status)
}

func TestApplyDenyClearsApprovalMetadata(t *testing.T) {
	now := time.Now().UTC()
	approver := "approver-1"
	c := &models.ContentModel{
		Status:       models.StatusReviewed,
		ApprovedByID: &approver,
		ApprovedAt:   &now,
	}
	require.NoError(t, Apply(c, ActionDeny, "approver-2", now))
	assert.Equal(t, models.StatusDraft, c.Status)
	assert.Nil(t, c.ApprovedByID)
	assert.Nil(t, c.ApprovedAt)
	require.NotNil(t, c.DeniedAt)
}

func TestApplyResubmitAfterDenial(t *testing.T) {
	now := time.Now().UTC()
	c := &models.ContentModel{Status: models.StatusDraft, DeniedAt: &now}
	require.NoError(t, Apply(c, ActionSubmit, "encoder-1", now))
	assert.Equal(t, models.StatusPendingReview, c.Status)
}

func TestApplyRejectsSkippedStates(t *testing.T) {
	cases := []struct {
		from   models.ContentStatus
		action Action
	}{
		{models.StatusDraft, ActionPublish},
		{models.StatusDraft, ActionApprove},
		{models.StatusDraft, ActionReview},
		{models.StatusPendingReview, ActionPublish},
		{models.StatusApproved, ActionSubmit},
		{models.StatusApproved, ActionApprove},
		{models.StatusPublished, ActionPublish},
		{models.StatusPublished, ActionDeny},
	}
	for _, tc := range cases {
		c := &models.ContentModel{Status: tc.from}
		err := Apply(c, tc.action, "u", time.Now())
		require.Error(t, err, "%s from %s", tc.action, tc.from)
		assert.Equal(t, apperr.KindState, apperr.KindOf(err))
		assert.Equal(t, tc.from, c.Status, "status must not change on a rejected transition")
	}
}

func TestApplyApproveTwiceIsStateError(t *testing.T) {
	c := &models.ContentModel{Status: models.StatusPendingReview}
	require.NoError(t, Apply(c, ActionApprove, "approver-1", time.Now()))
	err := Apply(c, ActionApprove, "approver-1", time.Now())
	require.Error(t, err)
	assert.Equal(t, apperr.KindState, apperr.KindOf(err))
}
