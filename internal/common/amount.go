package common

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	OCTDecimals = 6 // 1 OCT = 1,000,000 micro

	MicroPerOCT uint64 = 1_000_000
)

// MicroToOCT converts micro units to an OCT decimal string without float precision loss
func MicroToOCT(micro uint64) string {
	return formatWithDecimals(micro, OCTDecimals)
}

// OCTToMicro converts an OCT decimal string to micro units without float precision loss.
// Digits past the sixth decimal place are truncated.
func OCTToMicro(oct string) (uint64, error) {
	return parseWithDecimals(oct, OCTDecimals)
}

// JSONAmountToMicro converts a balance field decoded with json.Decoder.UseNumber
// (json.Number, string or float64) into micro units.
func JSONAmountToMicro(v any) (uint64, error) {
	switch t := v.(type) {
	case json.Number:
		return OCTToMicro(t.String())
	case string:
		return OCTToMicro(t)
	case float64:
		return OCTToMicro(strconv.FormatFloat(t, 'f', OCTDecimals, 64))
	case nil:
		return 0, fmt.Errorf("missing amount")
	default:
		return 0, fmt.Errorf("unsupported amount type %T", v)
	}
}

// JSONUint converts an integer field decoded with UseNumber into uint64.
func JSONUint(v any) (uint64, error) {
	switch t := v.(type) {
	case json.Number:
		return strconv.ParseUint(t.String(), 10, 64)
	case string:
		return strconv.ParseUint(strings.TrimSpace(t), 10, 64)
	case float64:
		if t < 0 || t != float64(uint64(t)) {
			return 0, fmt.Errorf("not a non-negative integer: %v", t)
		}
		return uint64(t), nil
	case nil:
		return 0, fmt.Errorf("missing integer")
	default:
		return 0, fmt.Errorf("unsupported integer type %T", v)
	}
}

// formatWithDecimals converts integer to decimal string by inserting decimal point
// Example: formatWithDecimals(10500000, 6) = "10.500000"
func formatWithDecimals(value uint64, decimals int) string {
	s := strconv.FormatUint(value, 10)

	for len(s) <= decimals {
		s = "0" + s
	}

	pos := len(s) - decimals
	return s[:pos] + "." + s[pos:]
}

// parseWithDecimals converts decimal string to integer by removing decimal point
// Example: parseWithDecimals("10.5", 6) = 10500000
func parseWithDecimals(s string, decimals int) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	parts := strings.Split(s, ".")

	if len(parts) == 1 {
		return strconv.ParseUint(parts[0]+strings.Repeat("0", decimals), 10, 64)
	}

	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid decimal format")
	}

	whole := parts[0]
	frac := parts[1]
	if whole == "" {
		whole = "0"
	}

	if len(frac) < decimals {
		frac += strings.Repeat("0", decimals-len(frac))
	} else if len(frac) > decimals {
		frac = frac[:decimals]
	}

	return strconv.ParseUint(whole+frac, 10, 64)
}
