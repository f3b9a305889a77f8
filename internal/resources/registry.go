package resources

import (
	"gorm.io/gorm"

	"github.com/lendahand-app/lendahand-backend/pkg/enums"
	pkgerrors "github.com/lendahand-app/lendahand-backend/pkg/errors"
)

// Registry resolves a resource kind to its variant capabilities.
type Registry struct {
	variants map[enums.ResourceKind]Variant
}

// NewRegistry builds a registry over the provided variants.
func NewRegistry(variants ...Variant) (*Registry, error) {
	if len(variants) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "at least one resource variant required")
	}
	byKind := make(map[enums.ResourceKind]Variant, len(variants))
	for _, v := range variants {
		if v == nil {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "nil resource variant")
		}
		if _, dup := byKind[v.Kind()]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "duplicate resource variant "+string(v.Kind()))
		}
		byKind[v.Kind()] = v
	}
	return &Registry{variants: byKind}, nil
}

// NewGormRegistry wires the registry with the gorm-backed offer and request variants.
func NewGormRegistry(db *gorm.DB) (*Registry, error) {
	if db == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database required")
	}
	return NewRegistry(NewOfferVariant(db), NewRequestVariant(db))
}

// Resolve returns the variant for the kind or a validation error for
// unknown kinds.
func (r *Registry) Resolve(kind enums.ResourceKind) (Variant, error) {
	v, ok := r.variants[kind]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown resource kind "+string(kind))
	}
	return v, nil
}
