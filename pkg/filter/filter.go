// Package filter turns raw href values into absolute URLs that belong to the
// crawled site or to the file-hosting domain.
package filter

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Options configures a Filter.
type Options struct {
	FilesDomain       string   // host (or parent domain) that serves downloadable files
	Blacklist         []string // case-insensitive substrings that reject a link
	IncludeSubdomains bool     // accept any host under the root's registrable domain
}

// Filter classifies and rewrites links. It holds no per-crawl state and is
// safe to reuse across roots.
type Filter struct {
	filesDomain       string
	blacklist         []string
	includeSubdomains bool
}

var rejectedSchemes = []string{"tel:", "mailto:", "javascript:"}

// New creates a Filter from opts.
func New(opts Options) *Filter {
	blacklist := make([]string, 0, len(opts.Blacklist))
	for _, phrase := range opts.Blacklist {
		if phrase = strings.TrimSpace(phrase); phrase != "" {
			blacklist = append(blacklist, strings.ToLower(phrase))
		}
	}
	return &Filter{
		filesDomain:       strings.ToLower(strings.TrimSpace(opts.FilesDomain)),
		blacklist:         blacklist,
		includeSubdomains: opts.IncludeSubdomains,
	}
}

// Filter returns the in-scope absolute URLs for links, resolved against
// root, in first-seen order and without duplicates. An unparseable root
// yields no links.
func (f *Filter) Filter(links []string, root string) []string {
	root = strings.TrimRight(root, "/")
	rootURL, err := url.Parse(root)
	if err != nil || rootURL.Host == "" {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	for _, link := range links {
		abs, ok := f.normalize(link, root, rootURL)
		if !ok || seen[abs] {
			continue
		}
		seen[abs] = true
		out = append(out, abs)
	}
	return out
}

func (f *Filter) normalize(link, rootPrefix string, root *url.URL) (string, bool) {
	lower := strings.ToLower(link)
	for _, scheme := range rejectedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return "", false
		}
	}
	if strings.HasPrefix(link, "#") || link == "" || link == "/" {
		return "", false
	}
	if f.blacklisted(lower) {
		return "", false
	}
	if _, err := url.Parse(link); err != nil {
		return "", false
	}

	// Path-absolute links are appended to the root as-is; "../" and "//"
	// are not resolved.
	if strings.HasPrefix(link, "/") {
		link = rootPrefix + link
	}

	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if !f.sameSite(u, root) && !f.isFileHost(u) {
		return "", false
	}
	return link, true
}

func (f *Filter) blacklisted(lowerLink string) bool {
	for _, phrase := range f.blacklist {
		if strings.Contains(lowerLink, phrase) {
			return true
		}
	}
	return false
}

// sameSite reports whether u sits under root: same scheme, and either the
// same host below the root's path or, with includeSubdomains, the same
// registrable domain.
func (f *Filter) sameSite(u, root *url.URL) bool {
	if !strings.EqualFold(u.Scheme, root.Scheme) {
		return false
	}
	if strings.EqualFold(u.Host, root.Host) {
		return withinPath(u.Path, root.Path)
	}
	if !f.includeSubdomains {
		return false
	}
	linked, err := publicsuffix.EffectiveTLDPlusOne(strings.ToLower(u.Hostname()))
	if err != nil {
		return false
	}
	rootDomain, err := publicsuffix.EffectiveTLDPlusOne(strings.ToLower(root.Hostname()))
	if err != nil {
		return false
	}
	return linked == rootDomain
}

func withinPath(p, rootPath string) bool {
	rootPath = strings.TrimSuffix(rootPath, "/")
	return rootPath == "" || p == rootPath || strings.HasPrefix(p, rootPath+"/")
}

func (f *Filter) isFileHost(u *url.URL) bool {
	if f.filesDomain == "" {
		return false
	}
	host := strings.ToLower(u.Host)
	hostname := strings.ToLower(u.Hostname())
	return host == f.filesDomain || hostname == f.filesDomain || strings.HasSuffix(hostname, "."+f.filesDomain)
}

// IsFile reports whether rawURL is served by the file-hosting domain.
func (f *Filter) IsFile(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return f.isFileHost(u)
}
