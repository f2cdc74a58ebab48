package workflow

import (
	"github.com/aghamazing/quest-core/internal/middleware"
	"github.com/aghamazing/quest-core/internal/models"
	"github.com/aghamazing/quest-core/internal/pkg/apperr"
)

// Decide is the single policy-evaluation point for every lifecycle action.
// It answers only "may this actor perform this action on this content".
// Whether the content is in a state where the action makes sense is the
// transition table's job, so a caller can always tell a role failure from a
// state failure.
func Decide(actor middleware.Actor, action Action, content *models.ContentModel) error {
	if actor.UserID == "" {
		return apperr.New(apperr.KindAuthentication, "authentication required")
	}
	if actor.IsSuperuser || actor.Role == models.RoleAdmin {
		return nil
	}

	switch action {
	case ActionCreate:
		if hasRole(actor, models.RoleEncoder, models.RoleEditor) {
			return nil
		}
		return deny("creating content requires the Encoder or Editor role")

	case ActionSubmit:
		if !hasRole(actor, models.RoleEncoder, models.RoleEditor) {
			return deny("submitting content requires the Encoder or Editor role")
		}
		if content != nil && content.AuthorID != actor.UserID && !hasRole(actor, models.RoleEditor) {
			return deny("only the author or an editor may submit this content")
		}
		return nil

	case ActionReview:
		if hasRole(actor, models.RoleEditor, models.RoleApprover) {
			return nil
		}
		return deny("reviewing content requires the Editor or Approver role")

	case ActionApprove, ActionDeny:
		if hasRole(actor, models.RoleApprover) {
			return nil
		}
		return deny("this decision requires the Approver role")

	case ActionPublish:
		if hasRole(actor, models.RoleApprover, models.RolePublisher) {
			return nil
		}
		return deny("publishing requires the Approver or Publisher role")

	case ActionDelete:
		if content != nil && content.AuthorID == actor.UserID {
			return nil
		}
		if actor.IsStaff {
			return nil
		}
		return deny("only the owner or an administrator may delete this content")
	}

	return deny("unknown action")
}

// CanSee reports whether the actor may read the given content at all.
// Non-staff users see only what they authored.
func CanSee(actor middleware.Actor, content *models.ContentModel) bool {
	if actor.IsStaff || actor.IsSuperuser || actor.Role == models.RoleAdmin {
		return true
	}
	return content.AuthorID == actor.UserID
}

func hasRole(actor middleware.Actor, roles ...string) bool {
	for _, r := range roles {
		if actor.Role == r {
			return true
		}
	}
	return false
}

func deny(msg string) error {
	return apperr.New(apperr.KindAuthorization, msg)
}
