package urlutil

import (
	"net/url"
	"testing"
)

func mustParse(t *testing.T, raw string) url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", raw, err)
	}
	return *u
}

func TestNormalizeOrigin_LowercasesSchemeAndHost(t *testing.T) {
	u := mustParse(t, "HTTP://Example.COM/Docs")

	normalized := NormalizeOrigin(u)

	if normalized.Scheme != "http" {
		t.Errorf("expected scheme http, got %q", normalized.Scheme)
	}
	if normalized.Host != "example.com" {
		t.Errorf("expected host example.com, got %q", normalized.Host)
	}
	// Path casing is not the origin's business
	if normalized.Path != "/Docs" {
		t.Errorf("expected path to be untouched, got %q", normalized.Path)
	}
}

func TestNormalizeOrigin_StripsDefaultPort(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantHost string
	}{
		{"http default port", "http://example.com:80/", "example.com"},
		{"https default port", "https://example.com:443/", "example.com"},
		{"http non-default port kept", "http://example.com:8080/", "example.com:8080"},
		{"https non-default port kept", "https://example.com:8443/", "example.com:8443"},
		{"no port", "http://example.com/", "example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalized := NormalizeOrigin(mustParse(t, tt.input))
			if normalized.Host != tt.wantHost {
				t.Errorf("expected host %q, got %q", tt.wantHost, normalized.Host)
			}
		})
	}
}

func TestNormalizeOrigin_Idempotent(t *testing.T) {
	u := mustParse(t, "HTTPS://Example.Com:443/a?q=1#frag")

	once := NormalizeOrigin(u)
	twice := NormalizeOrigin(once)

	if once != twice {
		t.Errorf("normalization not idempotent: %v != %v", once, twice)
	}
}

func TestNormalizeOrigin_DoesNotMutateInput(t *testing.T) {
	u := mustParse(t, "HTTP://Example.COM:80/")
	original := u

	NormalizeOrigin(u)

	if u != original {
		t.Error("NormalizeOrigin mutated its input")
	}
}

func TestDefaultPort(t *testing.T) {
	tests := []struct {
		scheme string
		want   string
	}{
		{"http", "80"},
		{"https", "443"},
		{"ftp", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := DefaultPort(tt.scheme); got != tt.want {
			t.Errorf("DefaultPort(%q) = %q, want %q", tt.scheme, got, tt.want)
		}
	}
}

func TestLowerASCII(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"already-lower", "already-lower"},
		{"MiXeD", "mixed"},
		{"HTTP", "http"},
		{"with-123-Digits", "with-123-digits"},
	}

	for _, tt := range tests {
		if got := LowerASCII(tt.input); got != tt.want {
			t.Errorf("LowerASCII(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
