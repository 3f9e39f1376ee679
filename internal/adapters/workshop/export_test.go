// export_test.go exports private functions for white-box testing.
package workshop

import (
	"net/http"
	"time"

	"go.trai.ch/wsm/internal/core/domain"
	"go.trai.ch/wsm/internal/core/ports"
)

// NewClientWithClient exposes newClientWithClient for testing.
func NewClientWithClient(client *http.Client, logger ports.Logger, now func() time.Time) *Client {
	return newClientWithClient(client, logger, now)
}

// ParseWorkshopDate exposes parseWorkshopDate for testing.
func ParseWorkshopDate(s string, now time.Time) (time.Time, error) {
	return parseWorkshopDate(s, now)
}

// ParseDetails exposes parseDetails for testing.
func ParseDetails(body []byte, id domain.ItemID, now time.Time) (*domain.Item, error) {
	return parseDetails(body, id, now)
}
