package imgcrawl_test

import (
	"net/url"
	"testing"

	"github.com/fwojciec/imgcrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	const base = "https://example.com/docs/guide.html"

	tests := []struct {
		name string
		ref  string
		want string
		ok   bool
	}{
		{"relative path", "intro.html", "https://example.com/docs/intro.html", true},
		{"parent path", "../img/logo.png", "https://example.com/img/logo.png", true},
		{"root relative", "/about", "https://example.com/about", true},
		{"absolute http", "http://other.org/x", "http://other.org/x", true},
		{"protocol relative", "//cdn.example.net/a.png", "https://cdn.example.net/a.png", true},
		{"query kept", "search?q=go", "https://example.com/docs/search?q=go", true},
		{"fragment stripped", "intro.html#part-2", "https://example.com/docs/intro.html", true},
		{"surrounding whitespace", "  intro.html\n", "https://example.com/docs/intro.html", true},
		{"fragment only", "#section", "", false},
		{"bare hash", "#", "", false},
		{"mailto", "mailto:x@y.com", "", false},
		{"javascript", "javascript:void(0)", "", false},
		{"tel", "tel:+123456", "", false},
		{"data uri", "data:image/png;base64,iVBORw0KGgo=", "", false},
		{"ftp", "ftp://example.com/file", "", false},
		{"empty", "", "", false},
		{"unparsable", "http://[::1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := imgcrawl.Resolve(base, tt.ref)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_RejectsNonHTTPBase(t *testing.T) {
	t.Parallel()

	_, ok := imgcrawl.Resolve("file:///tmp/index.html", "a.png")
	assert.False(t, ok)

	_, ok = imgcrawl.Resolve("not a url", "a.png")
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://example.com/A", imgcrawl.Normalize("HTTPS://Example.COM/A"))
	assert.Equal(t, "http://x/a", imgcrawl.Normalize("http://x/a?"))
	assert.Equal(t, "http://x/a", imgcrawl.Normalize("http://x/a#top"))
	assert.Equal(t, "http://x/a?b=1", imgcrawl.Normalize("http://x/a?b=1"))
	assert.NotEqual(t, imgcrawl.Normalize("http://x/a"), imgcrawl.Normalize("http://x/a/"))
}

func TestParseStartURL(t *testing.T) {
	t.Parallel()

	u, err := imgcrawl.ParseStartURL("https://example.com/start")
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Host)

	for _, raw := range []string{"", "example.com", "/relative", "ftp://example.com", "http://[::1"} {
		_, err := imgcrawl.ParseStartURL(raw)
		assert.Equal(t, imgcrawl.EINVALID, imgcrawl.ErrorCode(err), "input %q", raw)
	}
}

func TestScope_Allows(t *testing.T) {
	t.Parallel()

	start, err := url.Parse("https://www.example.com/")
	require.NoError(t, err)

	t.Run("any follows everything", func(t *testing.T) {
		t.Parallel()
		assert.True(t, imgcrawl.ScopeAny.Allows(start, "https://other.org/"))
		assert.True(t, imgcrawl.Scope("").Allows(start, "https://other.org/"))
	})

	t.Run("host requires exact host", func(t *testing.T) {
		t.Parallel()
		assert.True(t, imgcrawl.ScopeHost.Allows(start, "https://WWW.example.com/a"))
		assert.False(t, imgcrawl.ScopeHost.Allows(start, "https://blog.example.com/a"))
		assert.False(t, imgcrawl.ScopeHost.Allows(start, "https://www.example.com:8443/a"))
	})

	t.Run("domain accepts sibling subdomains", func(t *testing.T) {
		t.Parallel()
		assert.True(t, imgcrawl.ScopeDomain.Allows(start, "https://blog.example.com/a"))
		assert.True(t, imgcrawl.ScopeDomain.Allows(start, "http://example.com/"))
		assert.False(t, imgcrawl.ScopeDomain.Allows(start, "https://example.org/"))
	})

	t.Run("domain falls back to hostname for IPs", func(t *testing.T) {
		t.Parallel()
		local, err := url.Parse("http://127.0.0.1:8080/")
		require.NoError(t, err)
		assert.True(t, imgcrawl.ScopeDomain.Allows(local, "http://127.0.0.1:9090/x"))
		assert.False(t, imgcrawl.ScopeDomain.Allows(local, "http://127.0.0.2/x"))
	})
}

func TestScope_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, imgcrawl.Scope("").Validate())
	assert.NoError(t, imgcrawl.ScopeDomain.Validate())
	assert.Equal(t, imgcrawl.EINVALID, imgcrawl.ErrorCode(imgcrawl.Scope("galaxy").Validate()))
}
