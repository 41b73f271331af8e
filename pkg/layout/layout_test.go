package layout

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTarget(t *testing.T) {
	dir, file, err := Target("download", "https://files.edl.io/48ee/08/15/19/abc.pdf")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("download", "48ee", "08", "15", "19"), dir)
	assert.Equal(t, filepath.Join("download", "48ee", "08", "15", "19", "abc.pdf"), file)
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantDir  string
		wantFile string
		wantErr  bool
	}{
		{name: "nested", url: "https://22.files.edl.io/aa3d/08/15/19/175547-aa1a.pdf", wantDir: "/aa3d/08/15/19/", wantFile: "175547-aa1a.pdf"},
		{name: "top level", url: "https://files.edl.io/a.pdf", wantDir: "/", wantFile: "a.pdf"},
		{name: "query ignored", url: "https://files.edl.io/x/a.pdf?dl=1", wantDir: "/x/", wantFile: "a.pdf"},
		{name: "escaped name", url: "https://files.edl.io/x/I%20Can.docx", wantDir: "/x/", wantFile: "I Can.docx"},
		{name: "dot segments", url: "https://files.edl.io/../../etc/passwd", wantDir: "/etc/", wantFile: "passwd"},
		{name: "directory", url: "https://files.edl.io/x/", wantErr: true},
		{name: "no path", url: "https://files.edl.io", wantErr: true},
		{name: "no host", url: "/x/a.pdf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, file, err := Split(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDir, dir)
			assert.Equal(t, tt.wantFile, file)
		})
	}
}

func TestRelativePath(t *testing.T) {
	rel, err := RelativePath("https://files.edl.io/48ee/08/15/19/abc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "48ee/08/15/19/abc.pdf", rel)

	_, err = RelativePath("https://files.edl.io/")
	assert.True(t, errors.Is(err, ErrNoFileName))
}
