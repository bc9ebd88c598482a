package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
)

func userWithRoles(names ...string) *models.User {
	roles := make([]*models.Role, len(names))
	for i, n := range names {
		roles[i] = &models.Role{Name: n}
	}
	return &models.User{ID: "u-1", Email: "u@example.com", Roles: roles}
}

// Admin takes precedence over a trainer role, and the admin actor carries no
// trainer profile. Handlers that need one must check Kind, not just the JWT
// role, before dereferencing.
func TestResolveActorAdminPrecedenceLeavesTrainerNil(t *testing.T) {
	// The admin path returns before any profile lookup, so no db is needed.
	actor := resolveActor(nil, userWithRoles(models.RoleAdmin, models.RoleTrainer))

	require.NotNil(t, actor)
	assert.Equal(t, ActorAdmin, actor.Kind)
	assert.Nil(t, actor.Trainer)
	assert.Nil(t, actor.Trainee)
}

func TestResolveActorWithoutRoles(t *testing.T) {
	actor := resolveActor(nil, userWithRoles())
	assert.Equal(t, ActorAnonymous, actor.Kind)
	assert.Nil(t, actor.Trainer)
	assert.Nil(t, actor.Trainee)
}
