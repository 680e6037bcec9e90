package user

import (
	"time"

	"github.com/jsamuelsen11/teamspace/internal/domain"
	"github.com/jsamuelsen11/teamspace/internal/domain/valueobject"
)

// Primitives is the stored form of a User.
type Primitives struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Salt         string    `json:"salt"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) ToPrimitives() Primitives {
	return Primitives{
		ID:           u.id,
		Name:         u.name.String(),
		Email:        u.email.String(),
		PasswordHash: u.password.Hash(),
		Salt:         u.password.Salt(),
		CreatedAt:    u.createdAt,
	}
}

func Rehydrate(p Primitives) (*User, error) {
	if p.ID == "" {
		return nil, domain.FieldError("id", "is required")
	}
	name, err := valueobject.NewName("name", p.Name)
	if err != nil {
		return nil, err
	}
	email, err := valueobject.NewEmail(p.Email)
	if err != nil {
		return nil, err
	}
	password, err := valueobject.NewPasswordHash(p.PasswordHash, p.Salt)
	if err != nil {
		return nil, err
	}
	return &User{
		id:        p.ID,
		name:      name,
		email:     email,
		password:  password,
		createdAt: p.CreatedAt,
	}, nil
}
