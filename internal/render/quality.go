package render

import (
	"fmt"
	"strings"
)

// Quality selects the output resolution tier for a rendered video.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// Qualities lists the tiers in ascending resolution order.
func Qualities() []Quality {
	return []Quality{QualityLow, QualityMedium, QualityHigh}
}

// ParseQuality normalizes a user-supplied tier name.
func ParseQuality(value string) (Quality, error) {
	switch Quality(strings.ToLower(strings.TrimSpace(value))) {
	case QualityLow:
		return QualityLow, nil
	case QualityMedium:
		return QualityMedium, nil
	case QualityHigh:
		return QualityHigh, nil
	default:
		return "", fmt.Errorf("unknown render quality %q (expected low, medium, or high)", value)
	}
}

// Label returns the resolution shorthand shown to users.
func (q Quality) Label() string {
	switch q {
	case QualityLow:
		return "720p"
	case QualityMedium:
		return "1080p"
	case QualityHigh:
		return "4K"
	default:
		return string(q)
	}
}

func (q Quality) String() string { return string(q) }
