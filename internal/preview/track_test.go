package preview

import (
	"strings"
	"testing"

	"noxsub/internal/caption"
)

func TestFormatVTTTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00.000"},
		{1.5, "00:00:01.500"},
		{61.042, "00:01:01.042"},
		{3661.25, "01:01:01.250"},
		{-3, "00:00:00.000"},
	}
	for _, tc := range cases {
		if got := FormatVTTTimestamp(tc.seconds); got != tc.want {
			t.Errorf("FormatVTTTimestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestWriteTrack(t *testing.T) {
	captions := []caption.Caption{
		{ID: 1, Start: 0, End: 2.5, Text: "hello"},
		{ID: 2, Start: 2, End: 4, Text: "overlap kept"},
	}
	var sb strings.Builder
	if err := WriteTrack(&sb, caption.DefaultStyle(), captions); err != nil {
		t.Fatalf("write track: %v", err)
	}
	out := sb.String()

	if !strings.HasPrefix(out, "WEBVTT\n\n") {
		t.Fatalf("track missing WEBVTT header:\n%s", out)
	}
	for _, want := range []string{
		"STYLE\n::cue {",
		"font-size: 17px;",
		"color: #FFFFFF;",
		"font-family: Georgia, serif;",
		"background-color: rgba(0, 0, 0, 0.7);",
		"00:00:00.000 --> 00:00:02.500\nhello",
		"00:00:02.000 --> 00:00:04.000\noverlap kept",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("track missing %q:\n%s", want, out)
		}
	}
	// Default position is bottom, which needs no cue settings.
	if strings.Contains(out, "line:") {
		t.Errorf("bottom position should not emit line settings:\n%s", out)
	}
}

func TestWriteTrackPositions(t *testing.T) {
	style := caption.DefaultStyle()
	style.Position = caption.PositionTop
	var sb strings.Builder
	if err := WriteTrack(&sb, style, []caption.Caption{{ID: 1, Start: 0, End: 1, Text: "x"}}); err != nil {
		t.Fatalf("write track: %v", err)
	}
	if !strings.Contains(sb.String(), "00:00:01.000 line:10%") {
		t.Fatalf("top position should pin cues near the top:\n%s", sb.String())
	}

	style.Position = caption.PositionMiddle
	sb.Reset()
	if err := WriteTrack(&sb, style, []caption.Caption{{ID: 1, Start: 0, End: 1, Text: "x"}}); err != nil {
		t.Fatalf("write track: %v", err)
	}
	if !strings.Contains(sb.String(), "line:50%") {
		t.Fatalf("middle position should center cues:\n%s", sb.String())
	}
}
