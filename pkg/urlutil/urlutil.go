package urlutil

import "net/url"

// NormalizeOrigin applies a deterministic normalization to the origin part of
// a URL (scheme, host, port), producing a canonical form. It maps equivalent
// origin spellings to a single canonical representation.
//
// The normalization follows these rules:
//   - Scheme and host are lowercased
//   - Default ports are omitted (e.g., :80 for http, :443 for https)
//   - Path, query, and fragment are left untouched
//
// Properties:
//   - Pure: no state, no memory
//   - Deterministic: same input always produces same output
//   - Idempotent: NormalizeOrigin(NormalizeOrigin(url)) == NormalizeOrigin(url)
func NormalizeOrigin(sourceUrl url.URL) url.URL {
	// Create a copy to avoid mutating the original
	normalized := sourceUrl

	// Lowercase scheme and host
	normalized.Scheme = LowerASCII(normalized.Scheme)
	normalized.Host = LowerASCII(normalized.Host)

	// Remove default port if present
	if host, port := normalized.Hostname(), normalized.Port(); port != "" {
		if port == DefaultPort(normalized.Scheme) {
			normalized.Host = host
		}
	}

	return normalized
}

// DefaultPort returns the conventional port for the given (lowercased) scheme,
// or the empty string when the scheme has no defined default.
func DefaultPort(scheme string) string {
	switch scheme {
	case "http":
		return "80"
	case "https":
		return "443"
	default:
		return ""
	}
}

// LowerASCII converts ASCII characters to lowercase without allocating when
// the input is already lowercase. This is faster than strings.ToLower for
// ASCII-only strings such as schemes and hostnames.
func LowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
