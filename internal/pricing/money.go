package pricing

import (
	"fmt"
	"strconv"
	"strings"
)

// RupeesToPaise parses admin/form input like "499" or "499.50" into paise.
// Invalid input parses to 0; validation of the result belongs to the caller.
func RupeesToPaise(input string) int64 {
	var b strings.Builder
	for _, r := range input {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return int64(n*100 + 0.5)
}

// FormatPaise renders paise as "₹499.00" for display.
func FormatPaise(paise int64) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	return fmt.Sprintf("%s₹%d.%02d", sign, paise/100, paise%100)
}
