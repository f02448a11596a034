package models

import (
	"strconv"
	"strings"
	"unicode"
)

// Spec keys the compatibility rules read. Everything else in a SpecBag is
// display-only.
const (
	SpecSocket         = "socket"
	SpecMemoryType     = "memoryType"
	SpecTDP            = "tdp"
	SpecWattage        = "wattage"
	SpecRecommendedPSU = "recommendedPSU"
	SpecMaxGpuLength   = "maxGpuLength"
	SpecLength         = "length"
	SpecCores          = "cores"
	SpecClockSpeed     = "clockSpeed"
	SpecMemorySize     = "memorySize"
)

// SpecBag is the open attribute map extracted from marketplace titles.
// Accessors report absence instead of failing: a missing or unparsable
// attribute means "unknown", never "incompatible".
type SpecBag map[string]any

func (s SpecBag) Set(key string, value any) {
	if value == nil {
		return
	}
	s[key] = value
}

func (s SpecBag) String(key string) (string, bool) {
	v, ok := s[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	if !ok || str == "" {
		return "", false
	}
	return str, true
}

// Number reads a numeric attribute. String values go through a unit-stripping
// parse so "125W" and "125 W" both come back as 125.
func (s SpecBag) Number(key string) (float64, bool) {
	v, ok := s[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		return parseLooseNumber(n)
	}
	return 0, false
}

func (s SpecBag) Bool(key string) (bool, bool) {
	v, ok := s[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func parseLooseNumber(raw string) (float64, bool) {
	var sb strings.Builder
	for _, ch := range raw {
		if unicode.IsDigit(ch) || ch == '.' {
			sb.WriteRune(ch)
		}
	}
	if sb.Len() == 0 {
		return 0, false
	}
	n, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
