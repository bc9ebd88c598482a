package auth

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/sakthimugupython/Vetri-Training-Final/app/database"
	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
)

// ActorKind tags who is making the request.
type ActorKind string

const (
	ActorAnonymous ActorKind = "anonymous"
	ActorAdmin     ActorKind = "admin"
	ActorTrainer   ActorKind = "trainer"
	ActorTrainee   ActorKind = "trainee"
)

// Actor is the resolved caller identity, computed once per request in
// AuthMiddleware instead of re-probing profile links in every handler.
// Exactly one of Trainer/Trainee is set for those kinds.
type Actor struct {
	Kind    ActorKind
	User    *models.User
	Trainer *models.Trainer
	Trainee *models.Trainee
}

// resolveActor maps the authenticated user onto its portal profile.
// Role precedence: admin, then trainer, then trainee.
func resolveActor(db *sql.DB, user *models.User) *Actor {
	actor := &Actor{Kind: ActorAnonymous, User: user}
	for _, role := range user.Roles {
		if role.Name == models.RoleAdmin {
			actor.Kind = ActorAdmin
			return actor
		}
	}
	for _, role := range user.Roles {
		if role.Name == models.RoleTrainer {
			trainer, err := database.GetTrainerByUserID(db, user.ID)
			if err != nil {
				return actor
			}
			actor.Kind = ActorTrainer
			actor.Trainer = trainer
			return actor
		}
	}
	for _, role := range user.Roles {
		if role.Name == models.RoleTrainee {
			trainee, err := database.GetTraineeByUserID(db, user.ID)
			if err != nil {
				return actor
			}
			actor.Kind = ActorTrainee
			actor.Trainee = trainee
			return actor
		}
	}
	return actor
}

// CurrentActor returns the actor resolved by AuthMiddleware.
func CurrentActor(c *fiber.Ctx) *Actor {
	if actor, ok := c.Locals("actor").(*Actor); ok {
		return actor
	}
	return &Actor{Kind: ActorAnonymous}
}
