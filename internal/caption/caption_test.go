package caption_test

import (
	"strings"
	"testing"

	"noxsub/internal/caption"
)

func TestValidateRejectsInvertedRange(t *testing.T) {
	c := caption.Caption{ID: 3, Start: 4, End: 4, Text: "hi"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error when end equals start")
	}
	c = caption.Caption{ID: 3, Start: -1, End: 4, Text: "hi"}
	if err := c.Validate(); err == nil {
		t.Fatal("expected error for negative start")
	}
	c = caption.Caption{ID: 3, Start: 1, End: 4, Text: "hi"}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPlaceholderClampsToDuration(t *testing.T) {
	c := caption.Placeholder(12)
	if c.ID != 1 || c.Start != 0 || c.End != 5 || c.Text != caption.PlaceholderText {
		t.Fatalf("unexpected placeholder: %+v", c)
	}
	c = caption.Placeholder(3.5)
	if c.End != 3.5 {
		t.Fatalf("expected end clamped to duration, got %v", c.End)
	}
	c = caption.Placeholder(0)
	if c.End != 5 {
		t.Fatalf("expected fallback end of 5s, got %v", c.End)
	}
}

func TestNextIDSkipsExisting(t *testing.T) {
	captions := []caption.Caption{{ID: 1}, {ID: 7}, {ID: 3}}
	if got := caption.NextID(captions); got != 8 {
		t.Fatalf("expected 8, got %d", got)
	}
	if got := caption.NextID(nil); got != 1 {
		t.Fatalf("expected 1 for empty set, got %d", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	original := []caption.Caption{{ID: 1, Text: "one"}}
	cp := caption.Clone(original)
	cp[0].Text = "changed"
	if original[0].Text != "one" {
		t.Fatal("clone mutated the original set")
	}
}

func TestStyleValidate(t *testing.T) {
	style := caption.DefaultStyle()
	if err := style.Validate(); err != nil {
		t.Fatalf("default style should validate: %v", err)
	}
	style.Position = "floating"
	if err := style.Validate(); err == nil {
		t.Fatal("expected error for unknown position")
	}
	style = caption.DefaultStyle()
	style.FontSize = 0
	if err := style.Validate(); err == nil {
		t.Fatal("expected error for zero font size")
	}
}

func TestParsePosition(t *testing.T) {
	if pos, ok := caption.ParsePosition(" Bottom "); !ok || pos != caption.PositionBottom {
		t.Fatalf("unexpected parse result: %v %v", pos, ok)
	}
	if _, ok := caption.ParsePosition("left"); ok {
		t.Fatal("expected parse failure for unknown position")
	}
}

func TestWriteSRT(t *testing.T) {
	captions := []caption.Caption{
		{ID: 1, Start: 0, End: 4, Text: "Hi"},
		{ID: 2, Start: 4, End: 12.5, Text: "Bye"},
	}
	var sb strings.Builder
	if err := caption.WriteSRT(&sb, captions); err != nil {
		t.Fatalf("WriteSRT returned error: %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:04,000\nHi\n\n2\n00:00:04,000 --> 00:00:12,500\nBye\n\n"
	if sb.String() != want {
		t.Fatalf("unexpected srt output:\n%q\nwant:\n%q", sb.String(), want)
	}
}

func TestParseSRTTimestamp(t *testing.T) {
	got, err := caption.ParseSRTTimestamp("01:02:03,450")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3723.45 {
		t.Fatalf("expected 3723.45, got %v", got)
	}
	if _, err := caption.ParseSRTTimestamp("02:03,450"); err == nil {
		t.Fatal("expected error for malformed timestamp")
	}
}
