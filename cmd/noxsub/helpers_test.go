package main

import "testing"

func TestExtractYouTubeID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtube.com/watch?v=abc123&t=42", "abc123"},
		{"https://youtu.be/abc123", "abc123"},
		{"https://www.youtube.com/shorts/xyz789", "xyz789"},
	}
	for _, tc := range cases {
		got, err := extractYouTubeID(tc.in)
		if err != nil {
			t.Fatalf("extractYouTubeID(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("extractYouTubeID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "https://example.com/watch?v=abc", "https://www.youtube.com/"} {
		if _, err := extractYouTubeID(bad); err == nil {
			t.Errorf("extractYouTubeID(%q) should fail", bad)
		}
	}
}

func TestTruncateText(t *testing.T) {
	if got := truncateText("short", 10); got != "short" {
		t.Errorf("truncateText(short, 10) = %q", got)
	}
	if got := truncateText("a longer piece of text", 10); got != "a longe..." {
		t.Errorf("truncateText = %q", got)
	}
}

func TestFormatElapsed(t *testing.T) {
	cases := map[int]string{
		0:   "0s",
		59:  "59s",
		60:  "1m00s",
		125: "2m05s",
	}
	for in, want := range cases {
		if got := formatElapsed(in); got != want {
			t.Errorf("formatElapsed(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestParseProjectID(t *testing.T) {
	if _, err := parseProjectID("0"); err == nil {
		t.Error("project id 0 should be rejected")
	}
	if _, err := parseProjectID("abc"); err == nil {
		t.Error("non-numeric project id should be rejected")
	}
	id, err := parseProjectID(" 7 ")
	if err != nil || id != 7 {
		t.Errorf("parseProjectID(7) = %d, %v", id, err)
	}
}
