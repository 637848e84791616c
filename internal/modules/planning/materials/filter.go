package materials

import (
	"net/url"
	"strings"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
)

// placeholderMarkers appear in links a generator made up rather than found.
var placeholderMarkers = []string{"example", "실제"}

// IsPlaceholder reports whether raw is unusable as a link: empty, not http(s),
// missing a host, or carrying a fabricated-link marker.
func IsPlaceholder(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}
	lower := strings.ToLower(raw)
	for _, m := range placeholderMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return true
	}
	return u.Scheme != "http" && u.Scheme != "https"
}

// Filter drops placeholder entries, keeping order.
func Filter(in []domain.Material) []domain.Material {
	out := make([]domain.Material, 0, len(in))
	for _, m := range in {
		if !IsPlaceholder(m.URL) {
			out = append(out, m)
		}
	}
	return out
}
