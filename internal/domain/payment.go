package domain

import (
	"fmt"
	"strings"
)

var paymentAliases = map[string]PaymentMethod{
	"cod":         PaymentCOD,
	"creditcard":  PaymentCreditCard,
	"credit_card": PaymentCreditCard,
	"card":        PaymentCreditCard,
	"wallet":      PaymentWallet,
}

// ParsePaymentMethod accepts the method names used by storefront clients,
// case-insensitively.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	if m, ok := paymentAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedPaymentMethod, s)
}
