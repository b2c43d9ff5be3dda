package idgen

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"cargo-shipping-service/internal/domain"
)

// UUIDTrackingIDGenerator implements TrackingIDGenerator with random
// UUIDs, upper-cased to match the opaque tracking id convention.
type UUIDTrackingIDGenerator struct{}

func (g UUIDTrackingIDGenerator) NextTrackingID(ctx context.Context) (domain.TrackingID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return domain.TrackingID(strings.ToUpper(id.String())), nil
}
