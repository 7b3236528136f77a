package enums

import "fmt"

// CouponType maps to the coupon_type enum in Postgres.
type CouponType string

const (
	CouponTypePercentage   CouponType = "percentage"
	CouponTypeFixed        CouponType = "fixed"
	CouponTypeFreeDelivery CouponType = "free_delivery"
)

var validCouponTypes = []CouponType{
	CouponTypePercentage,
	CouponTypeFixed,
	CouponTypeFreeDelivery,
}

// IsValid checks whether the given type matches the canonical enum.
func (c CouponType) IsValid() bool {
	for _, candidate := range validCouponTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCouponType converts raw strings into CouponType.
func ParseCouponType(value string) (CouponType, error) {
	for _, candidate := range validCouponTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coupon type %q", value)
}
