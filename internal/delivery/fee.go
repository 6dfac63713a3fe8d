// Package delivery resolves delivery-option labels to flat fees.
package delivery

import "errors"

var ErrUnknownOption = errors.New("unknown delivery option")

// Fees are in minor currency units. The original storefront silently
// charged nothing for unrecognised labels; here an unknown option is an
// error so a client cannot talk itself into free delivery.
var fees = map[string]int64{
	"Island":                 2000,
	"Mainland":               1500,
	"Inter-state (park)":     3000,
	"Inter-state (doorstep)": 5000,
	"Pick-up":                0,
}

var optionOrder = []string{
	"Island",
	"Mainland",
	"Inter-state (park)",
	"Inter-state (doorstep)",
	"Pick-up",
}

// ResolveFee maps a delivery-option label to its flat fee.
func ResolveFee(option string) (int64, error) {
	fee, ok := fees[option]
	if !ok {
		return 0, ErrUnknownOption
	}
	return fee, nil
}

// Options returns the canonical delivery-option labels in display order.
func Options() []string {
	options := make([]string, len(optionOrder))
	copy(options, optionOrder)
	return options
}
