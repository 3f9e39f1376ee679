package ports

import "context"

// Credentials keeps the Steam password out of the settings and the core.
//
//go:generate mockgen -source=credentials.go -destination=mocks/mock_credentials.go -package=mocks
type Credentials interface {
	// Password returns the password for login.
	// It returns an error wrapping domain.ErrCredentialsMissing when none is known.
	Password(ctx context.Context, login string) (string, error)

	// Store remembers the password for login.
	Store(login, password string) error
}
