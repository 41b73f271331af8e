// Package layout maps file URLs onto a local directory tree that mirrors
// their URL path.
package layout

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// ErrNoFileName is returned for URLs whose path ends in a directory.
var ErrNoFileName = errors.New("url path has no file name")

// Split returns the slash-separated directory (with leading and trailing
// slash) and the final path segment of rawURL. The query string does not
// take part in the local name. ".." segments cannot climb above the root.
func Split(rawURL string) (dir, file string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("parse %q: %w", rawURL, err)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("parse %q: missing host", rawURL)
	}
	if u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return "", "", fmt.Errorf("%s: %w", rawURL, ErrNoFileName)
	}

	cleaned := path.Clean("/" + u.Path)
	if cleaned == "/" {
		return "", "", fmt.Errorf("%s: %w", rawURL, ErrNoFileName)
	}
	dir, file = path.Split(cleaned)
	return dir, file, nil
}

// RelativePath returns the path of rawURL below the download root,
// e.g. "48ee/08/15/19/abc.pdf".
func RelativePath(rawURL string) (string, error) {
	dir, file, err := Split(rawURL)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(dir, "/") + file, nil
}

// Target returns the local directory and final file path for rawURL under
// root.
func Target(root, rawURL string) (dir, file string, err error) {
	urlDir, name, err := Split(rawURL)
	if err != nil {
		return "", "", err
	}
	dir = filepath.Join(root, filepath.FromSlash(urlDir))
	return dir, filepath.Join(dir, name), nil
}
