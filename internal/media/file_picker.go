package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

// FilePickerOptions configures a directory-backed picker.
type FilePickerOptions struct {
	Fs         afero.Fs
	LibraryDir string
	// CameraDir is where captured photos land. Camera access is denied when empty.
	CameraDir string
	// Choose selects one of the candidate paths, newest first. Returning
	// false cancels the pick. The default takes the newest image.
	Choose func(source Source, candidates []string) (string, bool)
}

// FilePicker stands in for the platform pickers on desktops and in tests:
// permission is granted when the source directory exists, and the picker
// offers the images found in it.
type FilePicker struct {
	fs         afero.Fs
	libraryDir string
	cameraDir  string
	choose     func(Source, []string) (string, bool)
}

func NewFilePicker(opts FilePickerOptions) *FilePicker {
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	choose := opts.Choose
	if choose == nil {
		choose = func(_ Source, candidates []string) (string, bool) {
			if len(candidates) == 0 {
				return "", false
			}
			return candidates[0], true
		}
	}
	return &FilePicker{fs: fsys, libraryDir: opts.LibraryDir, cameraDir: opts.CameraDir, choose: choose}
}

// dir maps source to its directory; unknown sources map to none.
func (p *FilePicker) dir(source Source) string {
	src, err := ParseSource(string(source))
	if err != nil {
		return ""
	}
	if src == SourceCamera {
		return p.cameraDir
	}
	return p.libraryDir
}

func (p *FilePicker) RequestPermission(ctx context.Context, source Source) (bool, error) {
	if _, err := ParseSource(string(source)); err != nil {
		return false, err
	}
	dir := strings.TrimSpace(p.dir(source))
	if dir == "" {
		return false, nil
	}
	ok, err := afero.DirExists(p.fs, dir)
	if err != nil {
		return false, fmt.Errorf("media: stat %s: %w", dir, err)
	}
	return ok, nil
}

func (p *FilePicker) Pick(ctx context.Context, source Source) (string, bool, error) {
	dir := strings.TrimSpace(p.dir(source))
	if dir == "" {
		return "", false, fmt.Errorf("media: no directory configured for %q", source)
	}
	entries, err := afero.ReadDir(p.fs, dir)
	if err != nil {
		return "", false, fmt.Errorf("media: list %s: %w", dir, err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ModTime().After(entries[j].ModTime())
	})

	var candidates []string
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		if e.IsDir() {
			continue
		}
		full := filepath.Join(dir, e.Name())
		isImage, err := p.isImage(full)
		if err != nil {
			return "", false, err
		}
		if isImage {
			candidates = append(candidates, full)
		}
	}

	chosen, ok := p.choose(source, candidates)
	if !ok {
		return "", false, nil
	}
	abs, err := filepath.Abs(chosen)
	if err != nil {
		return "", false, fmt.Errorf("media: resolve %s: %w", chosen, err)
	}
	return "file://" + filepath.ToSlash(abs), true, nil
}

func (p *FilePicker) isImage(path string) (bool, error) {
	f, err := p.fs.Open(path)
	if err != nil {
		return false, fmt.Errorf("media: open %s: %w", path, err)
	}
	defer f.Close()
	mt, err := mimetype.DetectReader(io.LimitReader(f, 3072))
	if err != nil {
		return false, fmt.Errorf("media: detect %s: %w", path, err)
	}
	return strings.HasPrefix(mt.String(), "image/"), nil
}

var _ Picker = (*FilePicker)(nil)
