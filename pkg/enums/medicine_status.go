package enums

import (
	"fmt"
	"strings"
)

// MedicineStatus controls catalog visibility. Only ACTIVE medicines are listed
// publicly and can be ordered.
type MedicineStatus string

const (
	MedicineStatusActive   MedicineStatus = "ACTIVE"
	MedicineStatusInactive MedicineStatus = "INACTIVE"
)

var validMedicineStatuses = []MedicineStatus{
	MedicineStatusActive,
	MedicineStatusInactive,
}

// String implements fmt.Stringer.
func (s MedicineStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known MedicineStatus.
func (s MedicineStatus) IsValid() bool {
	for _, candidate := range validMedicineStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseMedicineStatus converts raw input into a MedicineStatus.
func ParseMedicineStatus(value string) (MedicineStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validMedicineStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid medicine status %q", value)
}
