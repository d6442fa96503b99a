package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseParams turns key=value pairs into url.Values. Repeated keys keep
// every value in order.
func ParseParams(pairs []string) (url.Values, error) {
	values := url.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", pair)
		}
		values.Add(key, value)
	}
	return values, nil
}

// SplitScopes splits a space or comma separated permission list.
func SplitScopes(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
}
