package domain

import "errors"

var ErrInvalidPaymentMethod = errors.New("invalid payment method")

// PaymentMethod is the closed enumeration of ways a ticket can be paid.
// It is validated at the checkout boundary; the data layer never sees a
// value outside this set.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "CASH"
	PaymentCard  PaymentMethod = "CARD"
	PaymentOther PaymentMethod = "OTHER"
)

// ParsePaymentMethod validates a raw payment method string against the
// enumeration.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCash, PaymentCard, PaymentOther:
		return PaymentMethod(s), nil
	}
	return "", ErrInvalidPaymentMethod
}

// String implements fmt.Stringer.
func (m PaymentMethod) String() string {
	return string(m)
}
