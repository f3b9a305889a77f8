package enums

import "fmt"

// ResourceStatus maps to the resource_status enum shared by offers and requests.
type ResourceStatus string

const (
	ResourceStatusActive     ResourceStatus = "active"
	ResourceStatusInProgress ResourceStatus = "in_progress"
	ResourceStatusCompleted  ResourceStatus = "completed"
	ResourceStatusCancelled  ResourceStatus = "cancelled"
	ResourceStatusArchived   ResourceStatus = "archived"
)

var validResourceStatuses = []ResourceStatus{
	ResourceStatusActive,
	ResourceStatusInProgress,
	ResourceStatusCompleted,
	ResourceStatusCancelled,
	ResourceStatusArchived,
}

// IsValid reports whether the value matches the canonical resource status enum.
func (s ResourceStatus) IsValid() bool {
	for _, candidate := range validResourceStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseResourceStatus converts raw input into ResourceStatus.
func ParseResourceStatus(value string) (ResourceStatus, error) {
	for _, candidate := range validResourceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid resource status %q", value)
}
