package templates

import "fmt"

// money formats a dollar figure for display, carrying the sign outside
// the currency symbol so losses read as -$123.45.
func money(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}
