package resources

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lendahand-app/lendahand-backend/pkg/enums"
)

// Resource is the kind-neutral view the matcher and finalizer work with.
// Variant-specific fields (price, category, alert type) stay opaque.
type Resource struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Status    enums.ResourceStatus
	Latitude  float64
	Longitude float64
}

// Variant is the capability set implemented once per resource kind.
type Variant interface {
	Kind() enums.ResourceKind
	WithTx(tx *gorm.DB) Variant
	// FindByID returns (nil, nil) when the resource does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*Resource, error)
	// ClaimStatus performs an atomic conditional status update. It reports
	// false when the row no longer holds the expected status.
	ClaimStatus(ctx context.Context, id uuid.UUID, expected, next enums.ResourceStatus) (bool, error)
	// SetStatus updates the status unconditionally and reports whether a
	// row was touched.
	SetStatus(ctx context.Context, id uuid.UUID, status enums.ResourceStatus) (bool, error)
}
