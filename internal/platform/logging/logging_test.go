package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/teamspace/internal/platform/logging"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), buf.String())
	return line
}

func TestNew_Formats(t *testing.T) {
	t.Parallel()

	var jsonBuf, textBuf bytes.Buffer
	logging.New("info", "json", &jsonBuf).Info("hello")
	logging.New("info", "text", &textBuf).Info("hello")

	line := decode(t, &jsonBuf)
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "hello", line["msg"])
	assert.Contains(t, textBuf.String(), "level=INFO")
}

func TestNew_UnknownFormatIsJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logging.New("info", "yaml", &buf).Info("hello")

	assert.Equal(t, "hello", decode(t, &buf)["msg"])
}

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level     string
		emitDebug bool
		emitWarn  bool
	}{
		{"debug", true, true},
		{"DEBUG", true, true},
		{"info", false, true},
		{"error", false, false},
		{"verbose", false, true},
		{"", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()

			var debugBuf, warnBuf bytes.Buffer
			logging.New(tt.level, "json", &debugBuf).Debug("d")
			logging.New(tt.level, "json", &warnBuf).Warn("w")

			assert.Equal(t, tt.emitDebug, debugBuf.Len() > 0)
			assert.Equal(t, tt.emitWarn, warnBuf.Len() > 0)
		})
	}
}

func TestNew_SourceOnlyAtDebug(t *testing.T) {
	t.Parallel()

	var debugBuf, infoBuf bytes.Buffer
	logging.New("debug", "json", &debugBuf).Info("x")
	logging.New("info", "json", &infoBuf).Info("x")

	assert.Contains(t, decode(t, &debugBuf), slog.SourceKey)
	assert.NotContains(t, decode(t, &infoBuf), slog.SourceKey)
}

func TestNew_RedactsCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		attr slog.Attr
		raw  string
	}{
		{"password", slog.String("password", "hunter2"), "hunter2"},
		{"new password", slog.String("new_password", "correct-horse"), "correct-horse"},
		{"password prefix", slog.String("password_confirmation", "correct-horse"), "correct-horse"},
		{"hash", slog.String("password_hash", "c2VjcmV0LWhhc2g="), "c2VjcmV0LWhhc2g="},
		{"salt", slog.String("salt", "c2FsdHNhbHQ="), "c2FsdHNhbHQ="},
		{"provider key in text", slog.String("body", "use sk-abcdefghijklmnopqrstuv please"), "sk-abcdefghijklmnopqrstuv"},
		{"encoded hash in text", slog.String("note", "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"), "$argon2id$"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logging.New("info", "json", &buf).Info("event", tt.attr)

			assert.NotContains(t, buf.String(), tt.raw)
			assert.Contains(t, buf.String(), "[REDACTED]")
		})
	}
}

func TestNew_RedactsCredentialStructFields(t *testing.T) {
	t.Parallel()

	type record struct {
		ID           string
		Email        string
		PasswordHash string
		Salt         string
	}

	var buf bytes.Buffer
	logging.New("info", "json", &buf).Info("loaded", slog.Any("user", record{
		ID:           "usr-1",
		Email:        "alice@example.com",
		PasswordHash: "c2VjcmV0LWhhc2g=",
		Salt:         "c2FsdHNhbHQ=",
	}))

	out := buf.String()
	assert.Contains(t, out, "usr-1")
	assert.Contains(t, out, "alice@example.com")
	assert.NotContains(t, out, "c2VjcmV0LWhhc2g=")
	assert.NotContains(t, out, "c2FsdHNhbHQ=")
}

func TestNew_KeepsDomainIdentifiers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logging.New("info", "json", &buf).Info("task moved",
		slog.String("task_id", "tsk-1"),
		slog.String("todo_list_id", "backlog"),
		slog.String(logging.KeyActor, "usr-9"),
	)

	line := decode(t, &buf)
	assert.Equal(t, "tsk-1", line["task_id"])
	assert.Equal(t, "backlog", line["todo_list_id"])
	assert.Equal(t, "usr-9", line[logging.KeyActor])
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	assert.Same(t, slog.Default(), logging.FromContext(context.Background()))

	first := slog.New(slog.DiscardHandler)
	second := slog.New(slog.DiscardHandler)
	ctx := logging.WithLogger(context.Background(), first)
	assert.Same(t, first, logging.FromContext(ctx))
	assert.Same(t, second, logging.FromContext(logging.WithLogger(ctx, second)))
}

func TestWithCommand(t *testing.T) {
	t.Parallel()

	t.Run("with actor", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		ctx := logging.WithLogger(context.Background(), logging.New("info", "json", &buf))
		ctx = logging.WithCommand(ctx, "teamspace task status", "usr-1")
		logging.FromContext(ctx).InfoContext(ctx, "done")

		line := decode(t, &buf)
		assert.Equal(t, "teamspace task status", line[logging.KeyCommand])
		assert.Equal(t, "usr-1", line[logging.KeyActor])
	})

	t.Run("without actor", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		ctx := logging.WithLogger(context.Background(), logging.New("info", "json", &buf))
		ctx = logging.WithCommand(ctx, "teamspace status", "")
		logging.FromContext(ctx).InfoContext(ctx, "done")

		assert.NotContains(t, decode(t, &buf), logging.KeyActor)
	})
}
