// export_test.go exports private functions for white-box testing.
package steamcmd

import (
	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/wsm/internal/core/ports"
)

// NewWithBinary exposes newWithBinary for testing.
func NewWithBinary(credentials ports.Credentials, logger ports.Logger, binary string) *Transport {
	return newWithBinary(credentials, logger, binary)
}

// CommandArgs exposes commandArgs for testing.
func CommandArgs(settings domain.Settings, id domain.ItemID, password string) []string {
	return commandArgs(settings, id, password)
}
