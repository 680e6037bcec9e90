package valueobject

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/teamspace/internal/domain"
)

func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *domain.ValidationError, got %T: %v", err, err)
	}
	if _, ok := verr.Fields[field]; !ok {
		t.Errorf("expected validation error on field %q, got fields: %v", field, verr.Fields)
	}
}

func TestNewName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "trimmed", raw: "  Ops  ", want: "Ops"},
		{name: "blank", raw: "   ", wantErr: true},
		{name: "max length", raw: strings.Repeat("a", maxNameLength), want: strings.Repeat("a", maxNameLength)},
		{name: "too long", raw: strings.Repeat("a", maxNameLength+1), wantErr: true},
		{name: "multibyte counted by rune", raw: strings.Repeat("é", maxNameLength), want: strings.Repeat("é", maxNameLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewName("title", tt.raw)
			if tt.wantErr {
				requireValidationField(t, err, "title")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNewEmail(t *testing.T) {
	t.Parallel()

	got, err := NewEmail("  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.String())
	assert.Equal(t, got.String(), NormalizeEmail("ALICE@example.com"))

	for _, raw := range []string{"", "not-an-email", "a@", "@b.com"} {
		_, err := NewEmail(raw)
		requireValidationField(t, err, "email")
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestNewPasswordHash(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHash("hash", "salt")
	require.NoError(t, err)
	assert.Equal(t, "hash", h.Hash())
	assert.Equal(t, "salt", h.Salt())

	_, err = NewPasswordHash(" ", "")
	requireValidationField(t, err, "password_hash")
	requireValidationField(t, err, "salt")
}

func TestNewTextAndDescription(t *testing.T) {
	t.Parallel()

	_, err := NewText("body", "")
	requireValidationField(t, err, "body")
	_, err = NewText("body", strings.Repeat("x", maxTextLength+1))
	requireValidationField(t, err, "body")

	d, err := NewDescription("")
	require.NoError(t, err)
	assert.Empty(t, d.String())
	_, err = NewDescription(strings.Repeat("x", maxDescriptionLength+1))
	requireValidationField(t, err, "description")
}

func TestDuration(t *testing.T) {
	t.Parallel()

	_, err := NewDuration(-1)
	requireValidationField(t, err, "duration")

	a, err := NewDuration(90)
	require.NoError(t, err)
	b, err := NewDuration(45)
	require.NoError(t, err)
	assert.Equal(t, 135, a.Add(b).Minutes())
	assert.Equal(t, "2h15m", a.Add(b).String())
}

func TestCalendar(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("start_date", "2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, time.Friday, d.Weekday())
	assert.Equal(t, "2025-03-15", d.AddDays(1).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
	assert.True(t, d.Equal(DateOf(time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC))))

	_, err = ParseDate("start_date", "14/03/2025")
	requireValidationField(t, err, "start_date")

	start, err := ParseTimeOfDay("start", "09:15")
	require.NoError(t, err)
	end, err := ParseTimeOfDay("end", "24:00")
	require.NoError(t, err)
	assert.Equal(t, "09:15", start.String())
	span, err := start.Until(end)
	require.NoError(t, err)
	assert.Equal(t, 24*60-9*60-15, span.Minutes())

	_, err = end.Until(start)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = ParseTimeOfDay("start", "9am")
	requireValidationField(t, err, "start")
}
