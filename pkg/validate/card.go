package validate

import (
	"github.com/ShiraazMoollatjie/goluhn"
)

// IsCardNumber checks a payment card number with the Luhn algorithm.
// goluhn accepts the empty string, so guard it out first.
func IsCardNumber(s string) bool {
	if s == "" {
		return false
	}
	err := goluhn.Validate(s)
	return err == nil
}
