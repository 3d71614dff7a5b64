// Package zip bundles exported files into a single archive.
package zip

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

type Entry struct {
	Name     string
	Modified time.Time
	Data     []byte
}

// Write streams entries into w as a zip archive. Repeated names get a numeric
// suffix before the extension so no entry is shadowed.
func Write(w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	used := make(map[string]int, len(entries))
	for _, e := range entries {
		name := uniqueName(strings.TrimLeft(path.Clean("/"+e.Name), "/"), used)
		header := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: e.Modified}
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("zip: create %s: %w", name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return fmt.Errorf("zip: write %s: %w", name, err)
		}
	}
	return zw.Close()
}

func uniqueName(name string, used map[string]int) string {
	n := used[name]
	used[name] = n + 1
	if n == 0 {
		return name
	}
	ext := path.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n, ext)
}
