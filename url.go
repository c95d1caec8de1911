package imgcrawl

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Resolve converts a reference found in HTML into an absolute URL, using base
// (the page the reference was found on) as context.
//
// It returns false for empty and fragment-only references, for anything that
// resolves to a scheme other than http or https (mailto:, javascript:, tel:,
// data: ...), and when either input cannot be parsed. The fragment of the
// resolved URL is dropped.
func Resolve(base string, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") {
		return "", false
	}

	b, err := url.Parse(base)
	if err != nil || !isHTTP(b) {
		return "", false
	}

	r, err := url.Parse(ref)
	if err != nil {
		return "", false
	}

	resolved := b.ResolveReference(r)
	if !isHTTP(resolved) {
		return "", false
	}
	resolved.Fragment = ""
	resolved.RawFragment = ""
	return resolved.String(), true
}

// Normalize returns the key under which a page URL is tracked in the
// VisitedSet. Scheme and host are lower-cased, the fragment is dropped and
// an empty trailing "?" is removed. Paths, trailing slashes and non-empty
// queries are kept as-is, so /a and /a/ are distinct pages.
func Normalize(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	u.ForceQuery = false
	return u.String()
}

// ParseStartURL validates the URL a crawl starts from.
func ParseStartURL(rawURL string) (*url.URL, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, Errorf(EINVALID, "start URL required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, WrapError(EINVALID, err, "invalid start URL %q", rawURL)
	}
	if !isHTTP(u) {
		return nil, Errorf(EINVALID, "start URL %q must be an absolute http or https URL", rawURL)
	}
	return u, nil
}

func isHTTP(u *url.URL) bool {
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Scope limits which discovered links a crawl enqueues.
type Scope string

// Supported scopes.
const (
	// ScopeAny follows every http(s) link.
	ScopeAny Scope = "any"
	// ScopeHost follows links on the start URL's host (including port).
	ScopeHost Scope = "host"
	// ScopeDomain follows links on the start URL's registrable domain,
	// so blog.example.com is in scope for www.example.com.
	ScopeDomain Scope = "domain"
)

// Validate returns an EINVALID error for unknown scopes.
// The zero value is treated as ScopeAny.
func (s Scope) Validate() error {
	switch s {
	case "", ScopeAny, ScopeHost, ScopeDomain:
		return nil
	}
	return Errorf(EINVALID, "unknown scope %q", string(s))
}

// Allows reports whether candidate is in scope for a crawl started at start.
func (s Scope) Allows(start *url.URL, candidate string) bool {
	if s == "" || s == ScopeAny {
		return true
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	switch s {
	case ScopeHost:
		return strings.EqualFold(u.Host, start.Host)
	case ScopeDomain:
		return registrableDomain(u.Hostname()) == registrableDomain(start.Hostname())
	}
	return false
}

// registrableDomain returns eTLD+1 for host. Hosts without one (IP
// addresses, localhost) are returned unchanged.
func registrableDomain(host string) string {
	host = strings.ToLower(host)
	if net.ParseIP(host) != nil {
		return host
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}
