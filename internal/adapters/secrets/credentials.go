// Package secrets supplies the Steam password to steamcmd without storing it in settings.
package secrets

import (
	"context"
	"errors"
	"io/fs"
	"os"

	wsmfs "go.trai.ch/wsm/internal/adapters/fs"
	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/wsm/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.Credentials = (*Store)(nil)

type credentialsFile struct {
	Passwords map[string]string `yaml:"passwords"`
}

// Store implements ports.Credentials. The environment variable
// WSM_STEAM_PASSWORD takes precedence over the private credentials file.
type Store struct {
	path   string
	getenv func(string) string
}

// NewStore creates a Store backed by the credentials file at path.
func NewStore(path string) *Store {
	return &Store{path: path, getenv: os.Getenv}
}

// Password returns the password for login. The anonymous account has none.
func (s *Store) Password(_ context.Context, login string) (string, error) {
	if login == domain.AnonymousLogin {
		return "", nil
	}

	if pw := s.getenv(domain.PasswordEnvVar); pw != "" {
		return pw, nil
	}

	file, err := s.read()
	if err != nil {
		return "", err
	}

	pw, ok := file.Passwords[login]
	if !ok || pw == "" {
		err := zerr.Wrap(domain.ErrCredentialsMissing, "no password for "+login)
		return "", zerr.With(err, "hint", "set "+domain.PasswordEnvVar+" or run `wsm set login "+login+" <password>`")
	}
	return pw, nil
}

// Store saves password for login in the credentials file with private permissions.
// An empty password forgets the login.
func (s *Store) Store(login, password string) error {
	file, err := s.read()
	if err != nil {
		return err
	}

	if password == "" {
		if _, ok := file.Passwords[login]; !ok {
			return nil
		}
		delete(file.Passwords, login)
	} else {
		file.Passwords[login] = password
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return zerr.Wrap(domain.ErrCredentialsWriteFailed, err.Error())
	}

	if err := wsmfs.WriteFileAtomic(s.path, data, domain.PrivateFilePerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCredentialsWriteFailed, err.Error()), "path", s.path)
	}
	return nil
}

func (s *Store) read() (*credentialsFile, error) {
	file := &credentialsFile{Passwords: map[string]string{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return file, nil
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrCredentialsMissing, err.Error()), "path", s.path)
	}

	if err := yaml.Unmarshal(data, file); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrCredentialsMissing, err.Error()), "path", s.path)
	}
	if file.Passwords == nil {
		file.Passwords = map[string]string{}
	}
	return file, nil
}
