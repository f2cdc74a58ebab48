package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aghamazing/quest-core/internal/middleware"
	"github.com/aghamazing/quest-core/internal/models"
	"github.com/aghamazing/quest-core/internal/pkg/apperr"
)

func actor(id, role string) middleware.Actor {
	return middleware.Actor{UserID: id, Role: role}
}

func TestDecideRequiresAuthentication(t *testing.T) {
	err := Decide(middleware.Actor{}, ActionCreate, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(err))
}

func TestDecideRoleMatrix(t *testing.T) {
	own := &models.ContentModel{AuthorID: "enc-1", Status: models.StatusDraft}
	foreign := &models.ContentModel{AuthorID: "someone-else", Status: models.StatusDraft}

	cases := []struct {
		name    string
		actor   middleware.Actor
		action  Action
		content *models.ContentModel
		allowed bool
	}{
		{"encoder creates", actor("enc-1", models.RoleEncoder), ActionCreate, nil, true},
		{"approver cannot create", actor("app-1", models.RoleApprover), ActionCreate, nil, false},
		{"encoder submits own draft", actor("enc-1", models.RoleEncoder), ActionSubmit, own, true},
		{"encoder cannot submit someone else's draft", actor("enc-1", models.RoleEncoder), ActionSubmit, foreign, false},
		{"editor submits anyone's draft", actor("ed-1", models.RoleEditor), ActionSubmit, foreign, true},
		{"editor reviews", actor("ed-1", models.RoleEditor), ActionReview, foreign, true},
		{"encoder cannot review", actor("enc-1", models.RoleEncoder), ActionReview, own, false},
		{"approver approves", actor("app-1", models.RoleApprover), ActionApprove, foreign, true},
		{"editor cannot approve", actor("ed-1", models.RoleEditor), ActionApprove, foreign, false},
		{"approver denies", actor("app-1", models.RoleApprover), ActionDeny, foreign, true},
		{"publisher publishes", actor("pub-1", models.RolePublisher), ActionPublish, foreign, true},
		{"approver publishes", actor("app-1", models.RoleApprover), ActionPublish, foreign, true},
		{"encoder cannot publish", actor("enc-1", models.RoleEncoder), ActionPublish, own, false},
		{"author deletes own", actor("enc-1", models.RoleEncoder), ActionDelete, own, true},
		{"non-author cannot delete", actor("enc-1", models.RoleEncoder), ActionDelete, foreign, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Decide(tc.actor, tc.action, tc.content)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
			}
		})
	}
}

func TestDecideAdminAndSuperuserBypass(t *testing.T) {
	foreign := &models.ContentModel{AuthorID: "someone-else"}
	admin := actor("adm-1", models.RoleAdmin)
	super := middleware.Actor{UserID: "root-1", IsSuperuser: true}

	for _, a := range []Action{ActionCreate, ActionSubmit, ActionReview, ActionApprove, ActionDeny, ActionPublish, ActionDelete} {
		assert.NoError(t, Decide(admin, a, foreign), "admin %s", a)
		assert.NoError(t, Decide(super, a, foreign), "superuser %s", a)
	}
}

func TestDecideStaffCanDeleteForeignContent(t *testing.T) {
	foreign := &models.ContentModel{AuthorID: "someone-else"}
	staff := middleware.Actor{UserID: "staff-1", Role: models.RoleEditor, IsStaff: true}
	assert.NoError(t, Decide(staff, ActionDelete, foreign))
}

func TestCanSee(t *testing.T) {
	own := &models.ContentModel{AuthorID: "enc-1"}
	foreign := &models.ContentModel{AuthorID: "someone-else"}

	enc := actor("enc-1", models.RoleEncoder)
	assert.True(t, CanSee(enc, own))
	assert.False(t, CanSee(enc, foreign))

	staff := middleware.Actor{UserID: "staff-1", IsStaff: true}
	assert.True(t, CanSee(staff, foreign))

	admin := actor("adm-1", models.RoleAdmin)
	assert.True(t, CanSee(admin, foreign))
}
