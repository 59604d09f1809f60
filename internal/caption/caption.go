package caption

import (
	"fmt"
	"strings"
)

// Caption is a single timed text segment. IDs are unique within one editing
// session; ordering by start time is expected but never enforced, and
// overlapping ranges are accepted.
type Caption struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Validate checks the timing invariants required when a caption is committed
// by the editor. It does not inspect neighbouring captions.
func (c Caption) Validate() error {
	if c.Start < 0 {
		return fmt.Errorf("caption %d: start %.3f is negative", c.ID, c.Start)
	}
	if c.End <= c.Start {
		return fmt.Errorf("caption %d: end %.3f must be after start %.3f", c.ID, c.End, c.Start)
	}
	return nil
}

// PlaceholderText is the default text seeded when transcription produces no
// captions, or when a fresh project has none yet.
const PlaceholderText = "Type your first caption here."

// Placeholder returns the default seed caption for a video of the given
// duration. Durations of zero or less fall back to a five second cue.
func Placeholder(duration float64) Caption {
	end := 5.0
	if duration > 0 && duration < end {
		end = duration
	}
	return Caption{ID: 1, Start: 0, End: end, Text: PlaceholderText}
}

// NextID returns an identifier unused by any caption in the set.
func NextID(captions []Caption) int {
	next := 1
	for _, c := range captions {
		if c.ID >= next {
			next = c.ID + 1
		}
	}
	return next
}

// Clone returns a copy of the caption set so readers always observe a
// fully-replaced snapshot.
func Clone(captions []Caption) []Caption {
	if captions == nil {
		return nil
	}
	cp := make([]Caption, len(captions))
	copy(cp, captions)
	return cp
}

// Position selects the vertical placement of rendered captions.
type Position string

const (
	PositionTop    Position = "top"
	PositionMiddle Position = "middle"
	PositionBottom Position = "bottom"
)

// ParsePosition converts user input into a known Position.
func ParsePosition(value string) (Position, bool) {
	switch Position(strings.ToLower(strings.TrimSpace(value))) {
	case PositionTop:
		return PositionTop, true
	case PositionMiddle:
		return PositionMiddle, true
	case PositionBottom:
		return PositionBottom, true
	default:
		return "", false
	}
}

// Style describes how captions are rendered. It is a pure value object:
// consumers always receive the whole style, never a partial update.
type Style struct {
	FontSize        int      `json:"fontSize"`
	Color           string   `json:"color"`
	FontFamily      string   `json:"fontFamily"`
	Position        Position `json:"position"`
	BackgroundColor string   `json:"backgroundColor"`
}

// DefaultStyle returns the editor's initial caption style.
func DefaultStyle() Style {
	return Style{
		FontSize:        17,
		Color:           "#FFFFFF",
		FontFamily:      "Georgia, serif",
		Position:        PositionBottom,
		BackgroundColor: "rgba(0, 0, 0, 0.7)",
	}
}

// Validate ensures a style can be applied as a complete unit.
func (s Style) Validate() error {
	if s.FontSize <= 0 {
		return fmt.Errorf("style: font size %d must be positive", s.FontSize)
	}
	if strings.TrimSpace(s.Color) == "" {
		return fmt.Errorf("style: color must be set")
	}
	if strings.TrimSpace(s.FontFamily) == "" {
		return fmt.Errorf("style: font family must be set")
	}
	if _, ok := ParsePosition(string(s.Position)); !ok {
		return fmt.Errorf("style: unknown position %q", s.Position)
	}
	if strings.TrimSpace(s.BackgroundColor) == "" {
		return fmt.Errorf("style: background color must be set")
	}
	return nil
}
