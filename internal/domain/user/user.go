// Package user implements the User aggregate. Password hashing happens
// outside the kernel; the aggregate only stores the resulting hash and salt.
package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/event"
	"github.com/jsamuelsen11/teamspace/internal/domain/valueobject"
)

const aggregateType = "user"

type User struct {
	id        string
	name      valueobject.Name
	email     valueobject.Email
	password  valueobject.PasswordHash
	createdAt time.Time
	events    event.Pending
}

// Register creates a user from an already hashed password.
func Register(name, email string, password valueobject.PasswordHash, now time.Time) (*User, error) {
	n, err := valueobject.NewName("name", name)
	if err != nil {
		return nil, err
	}
	e, err := valueobject.NewEmail(email)
	if err != nil {
		return nil, err
	}
	if password.Hash() == "" {
		return nil, domain.FieldError("password", "is required")
	}
	u := &User{
		id:        uuid.NewString(),
		name:      n,
		email:     e,
		password:  password,
		createdAt: now.UTC(),
	}
	u.record(event.UserRegistered, map[string]any{"email": e.String()}, now)
	return u, nil
}

func (u *User) ID() string                             { return u.id }
func (u *User) Name() string                           { return u.name.String() }
func (u *User) Email() string                          { return u.email.String() }
func (u *User) PasswordHash() valueobject.PasswordHash { return u.password }
func (u *User) CreatedAt() time.Time                   { return u.createdAt }

func (u *User) PullDomainEvents() (*User, []event.Event) {
	events := u.events.Events()
	next := *u
	next.events = nil
	return &next, events
}

func (u *User) PendingEvents() []event.Event { return u.events.Events() }

// Rename changes the display name. Users can only rename themselves.
func (u *User) Rename(actorUserID, name string, now time.Time) (*User, error) {
	if err := u.self(actorUserID); err != nil {
		return nil, err
	}
	n, err := valueobject.NewName("name", name)
	if err != nil {
		return nil, err
	}
	if n == u.name {
		return u, nil
	}
	next := *u
	next.name = n
	next.record(event.UserRenamed, map[string]any{"name": n.String()}, now)
	return &next, nil
}

// ChangePassword stores a new hash. The caller verifies the old password.
func (u *User) ChangePassword(actorUserID string, password valueobject.PasswordHash, now time.Time) (*User, error) {
	if err := u.self(actorUserID); err != nil {
		return nil, err
	}
	if password.Hash() == "" {
		return nil, domain.FieldError("password", "is required")
	}
	next := *u
	next.password = password
	next.record(event.UserPasswordChanged, nil, now)
	return &next, nil
}

func (u *User) self(actorUserID string) error {
	if actorUserID == "" {
		return domain.Unauthorized("actor is required")
	}
	if actorUserID != u.id {
		return domain.Forbidden("user %s cannot modify user %s", actorUserID, u.id)
	}
	return nil
}

func (u *User) record(eventType string, payload map[string]any, now time.Time) {
	u.events = u.events.Append(event.New(eventType, aggregateType, u.id, payload, now))
}
