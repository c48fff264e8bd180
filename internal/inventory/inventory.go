// Package inventory resolves how many units a received shipment adds to stock.
package inventory

import (
	"math"
	"regexp"
	"strconv"
)

var digitRun = regexp.MustCompile(`\d+`)

// ParseCaseQuantity returns the first run of digits in a free-form case
// descriptor such as "qty:100 box". ok is false when there are no digits or
// the number does not fit in an int.
func ParseCaseQuantity(descriptor string) (qty int, ok bool) {
	m := digitRun.FindString(descriptor)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// TotalQuantity is receivedCase times the parsed case quantity. It never
// fails: a descriptor without digits, a zero or negative case count, or an
// overflowing product all yield 0.
func TotalQuantity(receivedCase int, descriptor string) int {
	if receivedCase <= 0 {
		return 0
	}
	qty, ok := ParseCaseQuantity(descriptor)
	if !ok || qty == 0 {
		return 0
	}
	if qty > math.MaxInt32/receivedCase {
		return 0
	}
	return receivedCase * qty
}
