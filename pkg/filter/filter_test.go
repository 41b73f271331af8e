package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestFilter() *Filter {
	return New(Options{
		FilesDomain: "files.edl.io",
		Blacklist:   []string{"/events/", "subscribe/"},
	})
}

func TestFilterRejectsNonNavigable(t *testing.T) {
	f := newTestFilter()
	links := []string{"tel:x", "#frag", "mailto:a@b", "javascript:void(0)", "", "/", "TEL:555", "JavaScript:alert(1)"}

	for _, root := range []string{"https://example.org", "https://www.lskysd.ca", "http://127.0.0.1:8080"} {
		assert.Empty(t, f.Filter(links, root), "root %s", root)
	}
}

func TestFilterResolvesPathAbsolute(t *testing.T) {
	f := newTestFilter()

	got := f.Filter([]string{"/about", "/a/b/c.html?x=1", "/../up"}, "https://example.org")
	assert.Equal(t, []string{
		"https://example.org/about",
		"https://example.org/a/b/c.html?x=1",
		"https://example.org/../up",
	}, got)
}

func TestFilterRootWithPath(t *testing.T) {
	f := newTestFilter()

	got := f.Filter([]string{
		"/about",
		"https://example.org/school/news",
		"https://example.org/school",
		"https://example.org/other",
		"https://example.org/schoolyard",
		"https://files.edl.io/48ee/abc.pdf",
	}, "https://example.org/school/")
	assert.Equal(t, []string{
		"https://example.org/school/about",
		"https://example.org/school/news",
		"https://example.org/school",
		"https://files.edl.io/48ee/abc.pdf",
	}, got)
}

func TestFilterScope(t *testing.T) {
	f := newTestFilter()

	tests := []struct {
		name string
		link string
		want bool
	}{
		{name: "same host", link: "https://example.org/page", want: true},
		{name: "same host different case", link: "https://EXAMPLE.org/page", want: true},
		{name: "files domain", link: "https://files.edl.io/48ee/abc.pdf", want: true},
		{name: "files subdomain", link: "https://22.files.edl.io/48ee/abc.pdf", want: true},
		{name: "external", link: "https://other.com/page", want: false},
		{name: "root as substring of host", link: "https://example.org.evil.com/page", want: false},
		{name: "root in query of external", link: "https://other.com/?ref=https://example.org", want: false},
		{name: "subdomain without flag", link: "https://www.example.org/page", want: false},
		{name: "relative without slash", link: "page.html", want: false},
		{name: "ftp scheme", link: "ftp://example.org/file", want: false},
		{name: "same host other scheme", link: "http://example.org/page", want: false},
		{name: "files domain over http", link: "http://files.edl.io/48ee/abc.pdf", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Filter([]string{tt.link}, "https://example.org")
			if tt.want {
				assert.Equal(t, []string{tt.link}, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestFilterIncludeSubdomains(t *testing.T) {
	f := New(Options{FilesDomain: "files.edl.io", IncludeSubdomains: true})

	got := f.Filter([]string{
		"https://www.example.org/a",
		"https://blog.example.org/b",
		"https://example.com/c",
		"http://www.example.org/d",
	}, "https://example.org")
	assert.Equal(t, []string{"https://www.example.org/a", "https://blog.example.org/b"}, got)
}

func TestFilterBlacklist(t *testing.T) {
	f := newTestFilter()

	got := f.Filter([]string{
		"/events/2019/picnic",
		"https://example.org/EVENTS/today",
		"/news/subscribe/",
		"/news/",
	}, "https://example.org")
	assert.Equal(t, []string{"https://example.org/news/"}, got)
}

func TestFilterDeduplicates(t *testing.T) {
	f := newTestFilter()

	got := f.Filter([]string{"/a", "https://example.org/a", "/b", "/a"}, "https://example.org")
	assert.Equal(t, []string{"https://example.org/a", "https://example.org/b"}, got)
}

func TestFilterIdempotent(t *testing.T) {
	f := newTestFilter()
	raw := []string{"/a", "/b?x=1", "https://files.edl.io/x/y.pdf", "https://example.org/c#top", "mailto:x@y", "https://other.com"}

	once := f.Filter(raw, "https://example.org")
	twice := f.Filter(once, "https://example.org")
	assert.Equal(t, once, twice)
	assert.Len(t, once, 4)
}

func TestFilterUnparseable(t *testing.T) {
	f := newTestFilter()

	assert.Empty(t, f.Filter([]string{"https://exa mple.org/%zz"}, "https://example.org"))
	assert.Empty(t, f.Filter([]string{"/a"}, "::not a root"))
}

func TestIsFile(t *testing.T) {
	f := newTestFilter()

	assert.True(t, f.IsFile("https://files.edl.io/a.pdf"))
	assert.True(t, f.IsFile("https://22.files.edl.io/a.pdf"))
	assert.False(t, f.IsFile("https://example.org/files.edl.io/a.pdf"))
	assert.False(t, f.IsFile("https://notfiles.edl.io.example.org/a.pdf"))

	local := New(Options{FilesDomain: "127.0.0.1:8081"})
	assert.True(t, local.IsFile("http://127.0.0.1:8081/a.pdf"))
	assert.False(t, local.IsFile("http://127.0.0.1:8080/a.pdf"))
}
