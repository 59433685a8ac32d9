package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/teamline/teamline/internal/models"
)

// The handler layer depends on these narrow store contracts; the Mongo
// implementation lives in internal/store.

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	// EnsureUser is an idempotent upsert: insert if absent, else fetch.
	EnsureUser(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	AllUsers(ctx context.Context) ([]models.User, error)
}

type TeamStore interface {
	CreateTeam(ctx context.Context, team *models.Team) error
	GetTeam(ctx context.Context, id primitive.ObjectID) (*models.Team, error)
	FindTeamByName(ctx context.Context, name string) (*models.Team, error)
	FindOrCreateTeam(ctx context.Context, name string, admin primitive.ObjectID) (*models.Team, bool, error)
	AddTeamMember(ctx context.Context, teamID, userID primitive.ObjectID) error
	RemoveTeamMember(ctx context.Context, teamID, userID primitive.ObjectID) error
}

type MessageStore interface {
	InsertMessage(ctx context.Context, msg *models.Message) error
	TeamMessages(ctx context.Context, teamID primitive.ObjectID) ([]models.Message, error)
}
