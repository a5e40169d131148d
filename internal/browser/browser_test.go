package browser

import (
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "valid https URL",
			input:    "https://www.themoviedb.org/movie/603",
			expected: "https://www.themoviedb.org/movie/603",
		},
		{
			name:     "scheme added when missing",
			input:    "www.themoviedb.org/movie/603",
			expected: "https://www.themoviedb.org/movie/603",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  https://example.org/film  ",
			expected: "https://example.org/film",
		},
		{
			name:    "empty URL",
			input:   "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "non-web scheme rejected",
			input:   "javascript:alert(1)",
			wantErr: true,
		},
		{
			name:    "file scheme rejected",
			input:   "file:///etc/passwd",
			wantErr: true,
		},
		{
			name:    "dangerous characters rejected",
			input:   "https://example.org/<script>",
			wantErr: true,
		},
		{
			name:    "overlong URL rejected",
			input:   "https://example.org/" + strings.Repeat("a", maxURLLength),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ValidateURL(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateURL(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ValidateURL(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewOpener_DefaultCommand(t *testing.T) {
	o := NewOpener("")
	if o.command == "" {
		t.Error("NewOpener(\"\") picked no platform opener")
	}

	o = NewOpener("firefox")
	if o.command != "firefox" {
		t.Errorf("NewOpener override = %s, want firefox", o.command)
	}
}

func TestOpener_Open(t *testing.T) {
	// echo stands in for a real browser; Start should succeed and detach.
	o := NewOpener("echo")
	if err := o.Open("https://www.themoviedb.org/movie/603"); err != nil {
		t.Errorf("Open() error = %v", err)
	}

	if err := o.Open("javascript:alert(1)"); err == nil {
		t.Error("Open() accepted a non-web URL")
	}

	missing := NewOpener("nonexistentcommand123456")
	if err := missing.Open("https://example.org"); err == nil {
		t.Error("Open() with a missing opener command should fail")
	}
}
