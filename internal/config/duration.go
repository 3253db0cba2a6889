package config

import (
	"fmt"
	"strings"
	"time"
)

// Duration fields (stream.interval, stream.blockhash_ttl, rpc.timeout,
// journal.busy_timeout) are kept as Go duration strings in Config so the
// strict decoder handles them uniformly in JSON and YAML; components parse
// them with the helpers below when they are built.

// ParseDurationField parses one optional duration field. An empty or
// whitespace-only value means unset and yields zero; negative durations are
// rejected. path names the field in error messages ("stream.interval").
func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

// ParseDurationOrDefault substitutes def when the field is unset, for fields
// that carry an engine-side default (tick interval, blockhash TTL).
func ParseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	d, err := ParseDurationField(path, raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return def, nil
	}
	return d, nil
}
