package schema

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	sizeKB int64 = 1 << 10
	sizeMB int64 = 1 << 20
	sizeGB int64 = 1 << 30
)

// ParseFileSize converts human file-size limits such as "10MB", "500 kb", or
// "1.5GB" into bytes. A bare number is taken as bytes. Only KB/MB/GB suffixes
// are recognised; anything else is an error.
func ParseFileSize(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("schema: empty file size")
	}

	upper := strings.ToUpper(trimmed)
	multiplier := int64(1)
	switch {
	case strings.HasSuffix(upper, "KB"):
		multiplier = sizeKB
		upper = upper[:len(upper)-2]
	case strings.HasSuffix(upper, "MB"):
		multiplier = sizeMB
		upper = upper[:len(upper)-2]
	case strings.HasSuffix(upper, "GB"):
		multiplier = sizeGB
		upper = upper[:len(upper)-2]
	case strings.HasSuffix(upper, "B"):
		upper = upper[:len(upper)-1]
	}

	number := strings.TrimSpace(upper)
	if number == "" {
		return 0, fmt.Errorf("schema: invalid file size %q", raw)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("schema: invalid file size %q", raw)
	}
	return int64(value * float64(multiplier)), nil
}
