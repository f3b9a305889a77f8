package enums

import "fmt"

// ResourceKind selects which published entity a session claims.
type ResourceKind string

const (
	ResourceKindOffer   ResourceKind = "offer"
	ResourceKindRequest ResourceKind = "request"
)

var validResourceKinds = []ResourceKind{
	ResourceKindOffer,
	ResourceKindRequest,
}

// IsValid reports whether the value matches the canonical resource kind enum.
func (k ResourceKind) IsValid() bool {
	for _, candidate := range validResourceKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseResourceKind converts raw input into ResourceKind.
func ParseResourceKind(value string) (ResourceKind, error) {
	for _, candidate := range validResourceKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid resource kind %q", value)
}

// Model returns the entity tag recorded on notifications for this kind.
func (k ResourceKind) Model() ResourceModel {
	if k == ResourceKindOffer {
		return ResourceModelOffer
	}
	return ResourceModelRequest
}

// ResourceModel tags the originating entity type on a notification row.
type ResourceModel string

const (
	ResourceModelOffer   ResourceModel = "Offer"
	ResourceModelRequest ResourceModel = "Request"
)
