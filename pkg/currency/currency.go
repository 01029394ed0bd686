package currency

import "strconv"

// Rupiah amounts are whole units; there are no minor units to format.

// Format renders an amount as "Rp 1.234.567".
func Format(amount int64) string {
	return "Rp " + FormatPlain(amount)
}

// FormatPlain renders an amount with dot thousand separators and no symbol.
func FormatPlain(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}

	if negative {
		return "-" + string(out)
	}
	return string(out)
}

// Parse strips every non-digit character and returns the integer amount, so
// both "Rp 1.234.567" and "1234567" parse to 1234567.
func Parse(formatted string) int64 {
	var digits []byte
	for i := 0; i < len(formatted); i++ {
		if formatted[i] >= '0' && formatted[i] <= '9' {
			digits = append(digits, formatted[i])
		}
	}
	if len(digits) == 0 {
		return 0
	}
	amount, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return 0
	}
	return amount
}
