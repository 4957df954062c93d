package enums

import "fmt"

// DiscountType maps to the discount_type enum in Postgres.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

var validDiscountTypes = []DiscountType{
	DiscountTypePercentage,
	DiscountTypeFixed,
}

// IsValid reports whether the value matches the canonical discount type enum.
func (t DiscountType) IsValid() bool {
	for _, candidate := range validDiscountTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseDiscountType converts raw input into DiscountType.
func ParseDiscountType(value string) (DiscountType, error) {
	for _, candidate := range validDiscountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount type %q", value)
}
