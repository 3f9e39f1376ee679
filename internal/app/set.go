package app

import (
	"context"
	"fmt"

	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/zerr"
)

// Set stores a setting. For login, an optional second value is the password,
// which goes to the credentials store instead of the settings file.
func (a *App) Set(_ context.Context, rawKey string, values []string) error {
	key, err := domain.ParseSettingKey(rawKey)
	if err != nil {
		return err
	}

	maxValues := 1
	if key == domain.SettingLogin {
		maxValues = 2
	}
	if len(values) == 0 || len(values) > maxValues {
		err := zerr.Wrap(domain.ErrInvalidSetting, fmt.Sprintf("%s takes %d value(s)", key, maxValues))
		return zerr.With(err, "setting", string(key))
	}

	current, err := a.settings.Load()
	if err != nil {
		return err
	}

	next, err := current.With(key, values[0])
	if err != nil {
		return err
	}

	if key == domain.SettingLogin && len(values) == 2 {
		if err := a.credentials.Store(next.Login, values[1]); err != nil {
			return err
		}
	}

	if err := a.settings.Save(next); err != nil {
		return err
	}

	a.logger.Info(fmt.Sprintf("%s set to %s", key, next.Get(key)))
	return nil
}
