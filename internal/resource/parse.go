// Package resource converts Kubernetes resource quantity strings into the
// normalized floats the scoring pipeline works with: CPU in cores, memory in
// bytes.
package resource

import (
	"regexp"
	"strconv"
	"strings"
)

var memoryPattern = regexp.MustCompile(`^(\d+)(Ki|Mi|Gi|Ti|K|M|G|T)?`)

var memoryMultipliers = map[string]float64{
	"Ki": 1 << 10,
	"Mi": 1 << 20,
	"Gi": 1 << 30,
	"Ti": 1 << 40,
	"K":  1e3,
	"M":  1e6,
	"G":  1e9,
	"T":  1e12,
}

// ParseCPU parses a CPU quantity ("500m", "1", "2.5") into cores. Malformed
// or empty input parses to 0; the admission filter treats that as no request.
func ParseCPU(s string) float64 {
	if s == "" {
		return 0
	}
	if strings.HasSuffix(s, "m") {
		milli, err := strconv.ParseFloat(strings.TrimSuffix(s, "m"), 64)
		if err != nil {
			return 0
		}
		return milli / 1000.0
	}
	cores, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return cores
}

// ParseMemory parses a memory quantity ("128Mi", "1Gi", "100M") into bytes.
// Binary suffixes are powers of 1024, decimal suffixes powers of 1000; a
// missing or unrecognized suffix means raw bytes. Exponent notation and
// negative values are not supported and parse to 0.
func ParseMemory(s string) float64 {
	if s == "" {
		return 0
	}
	match := memoryPattern.FindStringSubmatch(s)
	if match == nil {
		return 0
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	if mult, ok := memoryMultipliers[match[2]]; ok {
		return value * mult
	}
	return value
}
