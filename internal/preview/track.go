package preview

import (
	"fmt"
	"io"
	"math"
	"strings"

	"noxsub/internal/caption"
)

// WriteTrack emits a WebVTT track carrying the caption set in its current
// order, with a STYLE block translating the active caption style. Overlapping
// or out-of-order cues are written exactly as given.
func WriteTrack(w io.Writer, style caption.Style, captions []caption.Caption) error {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")

	b.WriteString("STYLE\n::cue {\n")
	fmt.Fprintf(&b, "  font-size: %dpx;\n", style.FontSize)
	fmt.Fprintf(&b, "  color: %s;\n", style.Color)
	fmt.Fprintf(&b, "  font-family: %s;\n", style.FontFamily)
	fmt.Fprintf(&b, "  background-color: %s;\n", style.BackgroundColor)
	b.WriteString("}\n")

	settings := cueSettings(style.Position)
	for _, c := range captions {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%d\n", c.ID)
		fmt.Fprintf(&b, "%s --> %s%s\n", FormatVTTTimestamp(c.Start), FormatVTTTimestamp(c.End), settings)
		b.WriteString(c.Text)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func cueSettings(pos caption.Position) string {
	switch pos {
	case caption.PositionTop:
		return " line:10%"
	case caption.PositionMiddle:
		return " line:50%"
	default:
		return ""
	}
}

// FormatVTTTimestamp renders seconds as HH:MM:SS.mmm.
func FormatVTTTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	total := int64(math.Round(seconds * 1000))
	ms := total % 1000
	s := (total / 1000) % 60
	m := (total / 60000) % 60
	h := total / 3600000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
