package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Mebibyte is the number of bytes in one MB as the workshop reports sizes.
const Mebibyte = 1024 * 1024

var sizeUnits = map[string]int{
	"b":  0,
	"kb": 1,
	"mb": 2,
	"gb": 3,
	"tb": 4,
}

// ParseSize converts a workshop size string such as "1,024.5 MB" into bytes.
func ParseSize(s string) (int64, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, zerr.With(zerr.Wrap(ErrInvalidSize, "expected <number> <unit>"), "size", s)
	}

	exp, ok := sizeUnits[strings.ToLower(fields[1])]
	if !ok {
		return 0, zerr.With(zerr.Wrap(ErrInvalidSize, "unknown unit"), "size", s)
	}

	n, err := strconv.ParseFloat(strings.ReplaceAll(fields[0], ",", ""), 64)
	if err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, zerr.With(zerr.Wrap(ErrInvalidSize, "bad number"), "size", s)
	}

	bytes := math.Round(n * math.Pow(1024, float64(exp)))
	// float64(math.MaxInt64) rounds up to 2^63, which no longer fits.
	if bytes >= math.MaxInt64 {
		return 0, zerr.With(zerr.Wrap(ErrInvalidSize, "too large"), "size", s)
	}

	return int64(bytes), nil
}

// FormatSize renders bytes as mebibytes with two decimals, e.g. "12.50 MB".
func FormatSize(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/Mebibyte)
}
