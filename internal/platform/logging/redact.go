package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// credentialFields are attribute and struct field names whose values are
// never written. They cover the user credential columns, the password
// arguments of the user service and AI provider secrets.
var credentialFields = []string{
	"password",
	"current_password",
	"new_password",
	"password_hash",
	"PasswordHash",
	"salt",
	"Salt",
	"api_key",
	"token",
	"secret",
}

// providerKeyPattern catches provider keys pasted into free text, such as a
// chat message or a command argument.
var providerKeyPattern = regexp.MustCompile(`\b(sk|pk|key)-[A-Za-z0-9_\-]{16,}`)

// argon2Pattern catches a PHC-encoded argon2 hash that slipped into a value.
var argon2Pattern = regexp.MustCompile(`\$argon2id?\$v=\d+\$[^\s"]+`)

func redactor() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(credentialFields)+3)
	for _, name := range credentialFields {
		opts = append(opts, masq.WithFieldName(name))
	}
	opts = append(opts,
		masq.WithFieldPrefix("password_"),
		masq.WithRegex(providerKeyPattern),
		masq.WithRegex(argon2Pattern),
	)
	return masq.New(opts...)
}
