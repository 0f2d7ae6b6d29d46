package utils

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatAmount renders an amount as an integer-rounded currency string,
// e.g. "USD 1,250". The core computes unrounded values; rounding happens
// only here, at display time.
func FormatAmount(currencyCode string, amount float64) string {
	rounded := int64(math.Round(amount))
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}
	return fmt.Sprintf("%s %s%s", currencyCode, sign, groupThousands(rounded))
}

// RoundTendered rounds a computed total to the nearest whole unit for
// pre-filling the amount-paid field.
func RoundTendered(total float64) float64 {
	return math.Round(total)
}

// ReceiptCode builds a human-readable receipt number like
// "RCP-20260829-154233".
func ReceiptCode(t time.Time) string {
	return "RCP-" + t.Format("20060102-150405")
}

func groupThousands(n int64) string {
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return digits
	}
	var sb strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		sb.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}
