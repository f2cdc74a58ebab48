package workflow

import (
	"time"

	"github.com/aghamazing/quest-core/internal/models"
	"github.com/aghamazing/quest-core/internal/pkg/apperr"
)

// Apply mutates content in place for the given action, or returns a state
// error when the action is not valid from the current status. It assumes the
// policy check already passed; it knows nothing about roles.
func Apply(content *models.ContentModel, action Action, actorID string, now time.Time) error {
	switch action {
	case ActionSubmit:
		if content.Status != models.StatusDraft && content.Status != models.StatusReviewed {
			return stateErr(action, content.Status)
		}
		content.Status = models.StatusPendingReview
		return nil

	case ActionReview:
		if content.Status != models.StatusPendingReview {
			return stateErr(action, content.Status)
		}
		content.Status = models.StatusReviewed
		return nil

	case ActionApprove:
		if content.Status != models.StatusPendingReview && content.Status != models.StatusReviewed {
			return stateErr(action, content.Status)
		}
		content.Status = models.StatusApproved
		content.ApprovedByID = &actorID
		t := now
		content.ApprovedAt = &t
		content.DeniedAt = nil
		return nil

	case ActionDeny:
		if content.Status != models.StatusPendingReview && content.Status != models.StatusReviewed {
			return stateErr(action, content.Status)
		}
		content.Status = models.StatusDraft
		content.ApprovedByID = nil
		content.ApprovedAt = nil
		t := now
		content.DeniedAt = &t
		return nil

	case ActionPublish:
		if content.Status != models.StatusApproved {
			return stateErr(action, content.Status)
		}
		content.Status = models.StatusPublished
		t := now
		content.PublishedAt = &t
		return nil
	}

	return apperr.Newf(apperr.KindState, "no transition for action %q", action)
}

func stateErr(action Action, from models.ContentStatus) error {
	return apperr.Newf(apperr.KindState, "cannot %s content in status %q", action, from)
}
