package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPluralize(t *testing.T) {
	tc := []struct {
		name  string
		count int
		want  string
	}{
		{name: "singular", count: 1, want: "video"},
		{name: "plural", count: 2, want: "videos"},
		{name: "zero is plural", count: 0, want: "videos"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Pluralize(tt.count, "video", "videos")
			if got != tt.want {
				t.Errorf("Pluralize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	tc := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "short string unchanged", in: "hello", max: 10, want: "hello"},
		{name: "exact length unchanged", in: "hello", max: 5, want: "hello"},
		{name: "long string gets ellipsis", in: "hello world", max: 8, want: "hello w…"},
		{name: "multibyte runes counted as one", in: "héllo wörld", max: 8, want: "héllo w…"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateString(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("TruncateString() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisibilityString(t *testing.T) {
	if got := VisibilityString(true); got != "Public" {
		t.Errorf("VisibilityString(true) = %v, want Public", got)
	}
	if got := VisibilityString(false); got != "Private" {
		t.Errorf("VisibilityString(false) = %v, want Private", got)
	}
}

func TestFormatCount(t *testing.T) {
	if got := FormatCount(1, "like", "likes"); got != "1 like" {
		t.Errorf("FormatCount() = %v, want '1 like'", got)
	}
	if got := FormatCount(3, "like", "likes"); got != "3 likes" {
		t.Errorf("FormatCount() = %v, want '3 likes'", got)
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]string{"key": "value"}

	compact, err := MarshalJSON(data, false)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(compact) != `{"key":"value"}` {
		t.Errorf("compact output = %s", compact)
	}

	pretty, err := MarshalJSON(data, true)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if !strings.Contains(string(pretty), "\n") {
		t.Errorf("expected indented output, got %s", pretty)
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == b {
		t.Error("expected unique IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected UUID string, got %q", a)
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tlx.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	logger.Info("hello")

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected log file to exist: %v", err)
	}
}
