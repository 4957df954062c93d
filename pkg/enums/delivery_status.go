package enums

import "fmt"

// DeliveryStatus maps to the delivery_status enum in Postgres.
type DeliveryStatus string

const (
	DeliveryStatusAssigned  DeliveryStatus = "assigned"
	DeliveryStatusInTransit DeliveryStatus = "in_transit"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusFailed    DeliveryStatus = "failed"
)

var validDeliveryStatuses = []DeliveryStatus{
	DeliveryStatusAssigned,
	DeliveryStatusInTransit,
	DeliveryStatusDelivered,
	DeliveryStatusFailed,
}

// IsValid reports whether the value matches the canonical delivery status enum.
func (s DeliveryStatus) IsValid() bool {
	for _, candidate := range validDeliveryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseDeliveryStatus converts raw input into DeliveryStatus.
func ParseDeliveryStatus(value string) (DeliveryStatus, error) {
	for _, candidate := range validDeliveryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery status %q", value)
}
