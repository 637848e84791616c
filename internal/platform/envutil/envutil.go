// Package envutil reads typed settings from the environment. A missing or
// unparsable value yields the default.
package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func lookup[T any](name string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func String(name, def string) string {
	return lookup(name, def, func(s string) (string, error) { return s, nil })
}

func Int(name string, def int) int {
	return lookup(name, def, strconv.Atoi)
}

func Float(name string, def float64) float64 {
	return lookup(name, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// Bool accepts 1/0, true/false, yes/no, y/n, on/off.
func Bool(name string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	return def
}

// Duration accepts "90s"-style values or a bare number of seconds.
func Duration(name string, def time.Duration) time.Duration {
	return lookup(name, def, func(s string) (time.Duration, error) {
		if secs, err := strconv.Atoi(s); err == nil {
			return time.Duration(secs) * time.Second, nil
		}
		return time.ParseDuration(s)
	})
}

