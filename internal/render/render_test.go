package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScreen is a fixed-content Screen for renderer tests.
type fakeScreen struct {
	cols, rows int
	lines      []string
	curX, curY int
}

func (f *fakeScreen) Size() (int, int) { return f.cols, f.rows }

func (f *fakeScreen) Cell(x, y int) (rune, int) {
	if y < len(f.lines) {
		line := []rune(f.lines[y])
		if x < len(line) {
			// Color the first row red to exercise the palette.
			if y == 0 {
				return line[x], 1
			}
			return line[x], -1
		}
	}
	return ' ', -1
}

func (f *fakeScreen) Cursor() (int, int) { return f.curX, f.curY }

func newFakeScreen() *fakeScreen {
	return &fakeScreen{
		cols:  40,
		rows:  10,
		lines: []string{"$ echo hello", "hello"},
		curX:  0,
		curY:  2,
	}
}

func TestRenderWritesPNG(t *testing.T) {
	r := New()
	path := filepath.Join(t.TempDir(), "capture_0001.png")

	err := r.Render(newFakeScreen(), path)
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	img, err := png.Decode(file)
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, 40*charWidth+2*padding, bounds.Dx())
	assert.Equal(t, 10*charHeight+2*padding, bounds.Dy())
}

func TestRenderCreatesParentDir(t *testing.T) {
	r := New()
	path := filepath.Join(t.TempDir(), "nested", "deeper", "shot.png")

	err := r.Render(newFakeScreen(), path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestRenderOverwritesAtomically(t *testing.T) {
	r := New()
	dir := t.TempDir()
	path := filepath.Join(dir, "shot.png")

	require.NoError(t, r.Render(newFakeScreen(), path))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	// A second render replaces the artifact; no temp files remain.
	screen := newFakeScreen()
	screen.lines = []string{"different"}
	require.NoError(t, r.Render(screen, path))

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRenderFailsWithoutCorruptingArtifact(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	r := New()
	dir := t.TempDir()
	path := filepath.Join(dir, "shot.png")

	require.NoError(t, r.Render(newFakeScreen(), path))
	original, err := os.ReadFile(path)
	require.NoError(t, err)

	// Make the directory unwritable so the temp file cannot be created.
	require.NoError(t, os.Chmod(dir, 0o555))
	defer os.Chmod(dir, 0o755)

	err = r.Render(newFakeScreen(), path)
	assert.Error(t, err)

	after, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, original, after)
}
