package robots

import (
	"net/url"

	"golang.org/x/net/idna"

	"github.com/rohmanhakim/robots-resolver/pkg/urlutil"
)

// OriginKey composes the unique key under which robot rules are stored and
// looked up for the given URL.
//
// Robot rules apply only to the host, scheme, and port where robots.txt is
// hosted, so the key is "scheme:host:port" with scheme and host lowercased
// and the port defaulted to the scheme's standard port when unspecified.
// Path, query, and fragment never influence the key. Internationalized
// hostnames are mapped to their ASCII (punycode) form so unicode and
// punycode spellings of the same host share one key.
//
// Schemes without a defined default port produce a key with empty port
// digits ("scheme:host:") when the URL carries no explicit port.
func OriginKey(u url.URL) string {
	normalized := urlutil.NormalizeOrigin(u)

	scheme := normalized.Scheme
	host := asciiHost(normalized.Hostname())

	port := normalized.Port()
	if port == "" {
		port = urlutil.DefaultPort(scheme)
	}

	return scheme + ":" + host + ":" + port
}

// asciiHost maps an internationalized hostname to its ASCII form.
// Hosts the IDNA lookup profile rejects (underscores, stray punctuation)
// are keyed on their lowercased raw spelling instead.
func asciiHost(host string) string {
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return host
	}
	return ascii
}
