package records

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppendFile is an io.Writer that opens, appends to and closes its file on
// every Write, so a crash loses at most the record being written.
type AppendFile struct {
	Path string
}

func (a AppendFile) Write(p []byte) (int, error) {
	if dir := filepath.Dir(a.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("create directory for %s: %w", a.Path, err)
		}
	}
	f, err := os.OpenFile(a.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", a.Path, err)
	}
	n, err := f.Write(p)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", a.Path, cerr)
	}
	return n, err
}

// AppendLine appends line plus a newline to the file at path.
func AppendLine(path, line string) error {
	_, err := AppendFile{Path: path}.Write([]byte(line + "\n"))
	return err
}
