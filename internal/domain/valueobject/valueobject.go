// Package valueobject holds self-validating scalar wrappers. Constructors
// return a *domain.ValidationError (wrapping domain.ErrValidation) naming the
// offending field, so an aggregate that holds a value object never needs to
// re-check it.
package valueobject

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen11/teamspace/internal/domain"
)

const (
	msgRequired = "is required"

	maxNameLength        = 120
	maxTextLength        = 5000
	maxDescriptionLength = 2000
)

var validate = validator.New()

// Name is a trimmed, non-empty display name.
type Name struct{ value string }

// NewName validates and wraps a display name for the given field.
func NewName(field, raw string) (Name, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Name{}, domain.FieldError(field, msgRequired)
	}
	if utf8.RuneCountInString(v) > maxNameLength {
		return Name{}, domain.FieldError(field, fmt.Sprintf("must be at most %d characters", maxNameLength))
	}
	return Name{value: v}, nil
}

func (n Name) String() string { return n.value }

// Email is a lower-cased, trimmed address that passed syntax validation.
type Email struct{ value string }

// NewEmail normalizes and validates an email address.
func NewEmail(raw string) (Email, error) {
	v := NormalizeEmail(raw)
	if v == "" {
		return Email{}, domain.FieldError("email", msgRequired)
	}
	if err := validate.Var(v, "email"); err != nil {
		return Email{}, domain.FieldError("email", fmt.Sprintf("invalid: %q", raw))
	}
	return Email{value: v}, nil
}

// NormalizeEmail applies the same normalization NewEmail does, without
// validating. Repositories use it to build lookup keys.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func (e Email) String() string { return e.value }

// PasswordHash pairs a derived key with the salt it was derived with. The raw
// password never reaches the kernel.
type PasswordHash struct {
	hash string
	salt string
}

func NewPasswordHash(hash, salt string) (PasswordHash, error) {
	fields := make(map[string]string)
	if strings.TrimSpace(hash) == "" {
		fields["password_hash"] = msgRequired
	}
	if strings.TrimSpace(salt) == "" {
		fields["salt"] = msgRequired
	}
	if len(fields) > 0 {
		return PasswordHash{}, &domain.ValidationError{Fields: fields}
	}
	return PasswordHash{hash: hash, salt: salt}, nil
}

func (p PasswordHash) Hash() string { return p.hash }
func (p PasswordHash) Salt() string { return p.salt }

// Text is a non-empty message or comment body.
type Text struct{ value string }

func NewText(field, raw string) (Text, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Text{}, domain.FieldError(field, msgRequired)
	}
	if utf8.RuneCountInString(v) > maxTextLength {
		return Text{}, domain.FieldError(field, fmt.Sprintf("must be at most %d characters", maxTextLength))
	}
	return Text{value: v}, nil
}

func (t Text) String() string { return t.value }

// Description is optional free text; the empty description is valid.
type Description struct{ value string }

func NewDescription(raw string) (Description, error) {
	v := strings.TrimSpace(raw)
	if utf8.RuneCountInString(v) > maxDescriptionLength {
		return Description{}, domain.FieldError("description",
			fmt.Sprintf("must be at most %d characters", maxDescriptionLength))
	}
	return Description{value: v}, nil
}

func (d Description) String() string { return d.value }

// Duration is a non-negative number of minutes.
type Duration struct{ minutes int }

func NewDuration(minutes int) (Duration, error) {
	if minutes < 0 {
		return Duration{}, domain.FieldError("duration", fmt.Sprintf("must be >= 0, got %d", minutes))
	}
	return Duration{minutes: minutes}, nil
}

func (d Duration) Minutes() int { return d.minutes }

// Add returns the sum of two durations.
func (d Duration) Add(other Duration) Duration {
	return Duration{minutes: d.minutes + other.minutes}
}

func (d Duration) String() string {
	return fmt.Sprintf("%dh%02dm", d.minutes/60, d.minutes%60)
}
