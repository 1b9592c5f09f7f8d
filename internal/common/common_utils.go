package common

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

func GetResponseTime(init time.Time) string {
	return fmt.Sprintf("%dms", time.Since(init).Milliseconds())
}

// NormalizeCodes upper-cases, trims and de-duplicates airport or type codes,
// dropping empties. Order of first appearance is kept.
func NormalizeCodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// DecodeCached converts a cached value back to T. In-memory caches hand back
// the stored value; Redis hands back generic JSON which is re-decoded.
func DecodeCached[T any](v interface{}) (T, bool) {
	var zero T
	if v == nil {
		return zero, false
	}
	if typed, ok := v.(T); ok {
		return typed, true
	}
	if typed, ok := v.(*T); ok && typed != nil {
		return *typed, true
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return zero, false
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, false
	}
	return out, true
}
