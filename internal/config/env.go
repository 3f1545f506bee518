package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// envReader reads typed variables and collects every problem so a bad
// deployment reports all of them at once.
type envReader struct {
	errs []error
}

func (r *envReader) fail(format string, args ...any) {
	r.errs = append(r.errs, fmt.Errorf(format, args...))
}

func (r *envReader) err() error {
	return errors.Join(r.errs...)
}

// str returns the trimmed value of key, or def when it is blank.
func (r *envReader) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *envReader) boolean(key string, def bool) bool {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		r.fail("parse %s: %w", key, err)
	}
	return v
}

// integer parses key and rejects values below min.
func (r *envReader) integer(key string, def, min int) int {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	switch {
	case err != nil:
		r.fail("parse %s: %w", key, err)
	case v < min:
		r.fail("%s must be >= %d", key, min)
	}
	return v
}

// duration parses key and rejects non-positive values.
func (r *envReader) duration(key string, def time.Duration) time.Duration {
	raw := r.str(key, "")
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	switch {
	case err != nil:
		r.fail("parse %s: %w", key, err)
	case v <= 0:
		r.fail("%s must be > 0", key)
	}
	return v
}

// oneOf lower-cases key and checks it against allowed.
func (r *envReader) oneOf(key, def string, allowed ...string) string {
	v := strings.ToLower(r.str(key, def))
	if !slices.Contains(allowed, v) {
		r.fail("invalid %s %q: valid values are %s", key, v, strings.Join(allowed, ", "))
	}
	return v
}

func (r *envReader) csv(key, def string) []string {
	var out []string
	for _, item := range strings.Split(r.str(key, def), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// requireWhen records key as missing when enabled is set and value is blank.
func (r *envReader) requireWhen(enabled bool, value, key, because string) {
	if enabled && value == "" {
		r.fail("%s is required when %s", key, because)
	}
}
