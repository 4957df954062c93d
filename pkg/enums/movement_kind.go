package enums

import "fmt"

// MovementKind maps to the movement_kind enum in Postgres.
type MovementKind string

const (
	MovementKindPurchase   MovementKind = "purchase"
	MovementKindSale       MovementKind = "sale"
	MovementKindAdjustment MovementKind = "adjustment"
	MovementKindReturn     MovementKind = "return"
)

var validMovementKinds = []MovementKind{
	MovementKindPurchase,
	MovementKindSale,
	MovementKindAdjustment,
	MovementKindReturn,
}

// IsValid reports whether the value matches the canonical movement kind enum.
func (k MovementKind) IsValid() bool {
	for _, candidate := range validMovementKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// Decrements reports whether the kind removes stock for a positive magnitude.
func (k MovementKind) Decrements() bool {
	return k == MovementKindSale
}

// ParseMovementKind converts raw input into MovementKind.
func ParseMovementKind(value string) (MovementKind, error) {
	for _, candidate := range validMovementKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement kind %q", value)
}
