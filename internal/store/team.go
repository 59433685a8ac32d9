package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teamline/teamline/internal/models"
)

func (s *Store) CreateTeam(ctx context.Context, team *models.Team) error {
	if team.ID.IsZero() {
		team.ID = primitive.NewObjectID()
	}
	_, err := s.teams().InsertOne(ctx, team)
	return mapWriteErr(err)
}

func (s *Store) GetTeam(ctx context.Context, id primitive.ObjectID) (*models.Team, error) {
	var team models.Team
	err := s.teams().FindOne(ctx, bson.M{"_id": id}).Decode(&team)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get team %s: %w", id.Hex(), err)
	}
	return &team, nil
}

func (s *Store) FindTeamByName(ctx context.Context, name string) (*models.Team, error) {
	var team models.Team
	err := s.teams().FindOne(ctx, bson.M{"name": name}).Decode(&team)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find team by name: %w", err)
	}
	return &team, nil
}

// FindOrCreateTeam returns the team named name, creating it with admin as
// admin and sole member when absent. A writer that loses the creation race
// gets a duplicate-key error from the unique name index and falls back to
// the lookup, so callers never see the race.
func (s *Store) FindOrCreateTeam(ctx context.Context, name string, admin primitive.ObjectID) (*models.Team, bool, error) {
	team, err := s.FindTeamByName(ctx, name)
	if err == nil {
		return team, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	team = &models.Team{
		ID:      primitive.NewObjectID(),
		Name:    name,
		Admin:   admin,
		Members: []primitive.ObjectID{admin},
	}
	if _, err := s.teams().InsertOne(ctx, team); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			team, err := s.FindTeamByName(ctx, name)
			return team, false, err
		}
		return nil, false, fmt.Errorf("create team %q: %w", name, err)
	}
	return team, true, nil
}

// AddTeamMember appends userID to the member set if absent. Idempotent.
func (s *Store) AddTeamMember(ctx context.Context, teamID, userID primitive.ObjectID) error {
	res, err := s.teams().UpdateOne(ctx,
		bson.M{"_id": teamID},
		bson.M{"$addToSet": bson.M{"members": userID}},
	)
	if err != nil {
		return fmt.Errorf("add member to team %s: %w", teamID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveTeamMember removes userID from the member set. The admin field is
// left untouched even when the admin leaves.
func (s *Store) RemoveTeamMember(ctx context.Context, teamID, userID primitive.ObjectID) error {
	res, err := s.teams().UpdateOne(ctx,
		bson.M{"_id": teamID},
		bson.M{"$pull": bson.M{"members": userID}},
	)
	if err != nil {
		return fmt.Errorf("remove member from team %s: %w", teamID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
