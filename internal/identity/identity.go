// Package identity generates national-ID-style identity codes with a
// weighted mod-10 checksum from a birth date and sex code.
package identity

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"hospital-sim-reporting/internal/models"
)

// Per-position checksum weights over the first 10 digits
var weights = [10]int{1, 3, 7, 9, 1, 3, 7, 9, 1, 3}

// Generate returns an 11-digit identity code for the given birth date
// and sex. The month field carries a century offset (+80 for the
// 1800s, +20 for the 2000s) so a two-digit year stays unambiguous.
// The tenth digit encodes sex by parity: odd for male, even for
// female, picked by rejection sampling. The final digit is the
// checksum over the first ten.
func Generate(birth time.Time, sex string, rng *rand.Rand) string {
	year, month, day := birth.Year(), int(birth.Month()), birth.Day()
	switch {
	case year >= 1800 && year < 1900:
		month += 80
	case year >= 2000 && year < 2100:
		month += 20
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%02d%02d%02d", year%100, month, day)
	fmt.Fprintf(&b, "%03d", 100+rng.Intn(900))

	sexDigit := rng.Intn(10)
	if sex == models.SexMale {
		for sexDigit%2 == 0 {
			sexDigit = rng.Intn(10)
		}
	} else {
		for sexDigit%2 != 0 {
			sexDigit = rng.Intn(10)
		}
	}
	b.WriteByte('0' + byte(sexDigit))

	code := b.String()
	return fmt.Sprintf("%s%d", code, checkDigit(code))
}

// Validate reports whether code is 11 digits long and its last digit
// matches the checksum of the first ten.
func Validate(code string) bool {
	if len(code) != 11 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return int(code[10]-'0') == checkDigit(code[:10])
}

func checkDigit(first10 string) int {
	sum := 0
	for i := 0; i < 10; i++ {
		sum += int(first10[i]-'0') * weights[i]
	}
	return (10 - (sum % 10)) % 10
}
