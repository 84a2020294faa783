package user

import (
	"context"
	"sort"
	"time"
)

// MockRepository keeps users in memory, keyed by id.
type MockRepository struct {
	Users map[int64]User
	Err   error

	// DuplicateOnCreate makes Create fail as if the unique index fired.
	DuplicateOnCreate bool
	CreateCalls       int
}

func NewMockRepository(users ...User) *MockRepository {
	m := &MockRepository{Users: make(map[int64]User)}
	for _, u := range users {
		m.Users[u.ID] = u
	}
	return m
}

func (m *MockRepository) Create(_ context.Context, user *User) error {
	m.CreateCalls++
	if m.Err != nil {
		return m.Err
	}
	if m.DuplicateOnCreate {
		return ErrDuplicateEmail
	}
	user.ID = int64(len(m.Users) + 1)
	user.CreatedAt = time.Now().UTC()
	m.Users[user.ID] = *user
	return nil
}

func (m *MockRepository) FindByID(_ context.Context, id int64) (*User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	user, ok := m.Users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (m *MockRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.Users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MockRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	if err == ErrUserNotFound {
		return false, nil
	}
	return err == nil, err
}

func (m *MockRepository) FindAll(_ context.Context) ([]User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	users := make([]User, 0, len(m.Users))
	for _, u := range m.Users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}
