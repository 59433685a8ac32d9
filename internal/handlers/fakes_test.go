package handlers

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/teamline/teamline/internal/models"
	"github.com/teamline/teamline/internal/store"
)

// fakeStore is an in-memory stand-in for the Mongo store. It enforces the
// same uniqueness constraints so handler behavior around duplicates and
// lookups matches production: usernames and team names are unique, and
// emails are unique only when non-empty, mirroring the partial index that
// exempts socket-created accounts.
type fakeStore struct {
	mu       sync.Mutex
	users    map[primitive.ObjectID]*models.User
	teams    map[primitive.ObjectID]*models.Team
	messages []models.Message
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[primitive.ObjectID]*models.User),
		teams: make(map[primitive.ObjectID]*models.Team),
	}
}

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if (user.Email != "" && u.Email == user.Email) || u.Username == user.Username {
			return store.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeStore) GetUser(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) EnsureUser(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	u := &models.User{ID: primitive.NewObjectID(), Username: username}
	// Same constraint the insert path enforces; the empty email of an
	// auto-created account never conflicts.
	for _, other := range f.users {
		if u.Email != "" && other.Email == u.Email {
			return nil, store.ErrDuplicate
		}
	}
	f.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (f *fakeStore) UpdateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return store.ErrNotFound
	}
	for id, u := range f.users {
		if id == user.ID {
			continue
		}
		if (user.Email != "" && u.Email == user.Email) || u.Username == user.Username {
			return store.ErrDuplicate
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeStore) AllUsers(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, *u)
	}
	return users, nil
}

func (f *fakeStore) CreateTeam(_ context.Context, team *models.Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.teams {
		if t.Name == team.Name {
			return store.ErrDuplicate
		}
	}
	if team.ID.IsZero() {
		team.ID = primitive.NewObjectID()
	}
	cp := *team
	cp.Members = append([]primitive.ObjectID(nil), team.Members...)
	f.teams[team.ID] = &cp
	return nil
}

func (f *fakeStore) GetTeam(_ context.Context, id primitive.ObjectID) (*models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyTeam(t), nil
}

func (f *fakeStore) FindTeamByName(_ context.Context, name string) (*models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.teams {
		if t.Name == name {
			return copyTeam(t), nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) FindOrCreateTeam(_ context.Context, name string, admin primitive.ObjectID) (*models.Team, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.teams {
		if t.Name == name {
			return copyTeam(t), false, nil
		}
	}
	t := &models.Team{
		ID:      primitive.NewObjectID(),
		Name:    name,
		Admin:   admin,
		Members: []primitive.ObjectID{admin},
	}
	f.teams[t.ID] = t
	return copyTeam(t), true, nil
}

func (f *fakeStore) AddTeamMember(_ context.Context, teamID, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[teamID]
	if !ok {
		return store.ErrNotFound
	}
	if !t.HasMember(userID) {
		t.Members = append(t.Members, userID)
	}
	return nil
}

func (f *fakeStore) RemoveTeamMember(_ context.Context, teamID, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teams[teamID]
	if !ok {
		return store.ErrNotFound
	}
	members := t.Members[:0]
	for _, m := range t.Members {
		if m != userID {
			members = append(members, m)
		}
	}
	t.Members = members
	return nil
}

func (f *fakeStore) InsertMessage(_ context.Context, msg *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeStore) TeamMessages(_ context.Context, teamID primitive.ObjectID) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Message
	for _, m := range f.messages {
		if m.TeamID == teamID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func copyTeam(t *models.Team) *models.Team {
	cp := *t
	cp.Members = append([]primitive.ObjectID(nil), t.Members...)
	return &cp
}
