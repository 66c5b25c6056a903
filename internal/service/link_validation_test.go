package service

import (
	"context"
	"strings"
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "https URL passes through",
			input: "https://example.com/page",
			want:  "https://example.com/page",
		},
		{
			name:  "http URL passes through",
			input: "http://example.com",
			want:  "http://example.com",
		},
		{
			name:  "bare host gets https prefixed",
			input: "example.com",
			want:  "https://example.com",
		},
		{
			name:  "bare host with path gets https prefixed",
			input: "example.com/foo?q=1",
			want:  "https://example.com/foo?q=1",
		},
		{
			name:  "surrounding whitespace is trimmed",
			input: "  https://example.com  ",
			want:  "https://example.com",
		},
		{
			name:  "localhost is allowed",
			input: "http://localhost:3000/dev",
			want:  "http://localhost:3000/dev",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "unsupported scheme",
			input:   "ftp://example.com/file",
			wantErr: true,
		},
		{
			name:    "javascript scheme",
			input:   "javascript:alert(1)",
			wantErr: true,
		},
		{
			name:    "scheme without host",
			input:   "https://",
			wantErr: true,
		},
		{
			name:    "single word without dot",
			input:   "notaurl",
			wantErr: true,
		},
		{
			name:    "URL over length limit",
			input:   "https://example.com/" + strings.Repeat("a", maxURLLength),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := normalizeURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("normalizeURL(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeURL(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("normalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDescriptionLengthLimit(t *testing.T) {
	t.Parallel()

	svc := &LinkService{}

	in := ShortenInput{
		OriginalURL: "https://example.com",
		Description: strings.Repeat("x", 61),
		OwnerID:     "owner",
	}
	if _, err := svc.Shorten(context.Background(), in); err != ErrDescriptionTooLong {
		t.Errorf("Shorten with 61-char description = %v, want ErrDescriptionTooLong", err)
	}
}

func TestGenerateCode(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool, 10000)

	for i := 0; i < 10000; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generateCode returned error: %v", err)
		}
		if len(code) != codeLength {
			t.Fatalf("generateCode returned %q with length %d, want %d", code, len(code), codeLength)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("generateCode returned %q with character %q outside the alphabet", code, c)
			}
		}
		if seen[code] {
			t.Fatalf("generateCode produced duplicate %q after %d draws", code, i)
		}
		seen[code] = true
	}
}
