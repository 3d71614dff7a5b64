package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"interiorai/internal/appstate"
	"interiorai/pkg/zip"
)

// exportGallery writes the user, the designs and every locally stored
// original photo into a zip archive at dest.
func exportGallery(mgr *appstate.Manager, dest string, now time.Time, logger zerolog.Logger) (int, error) {
	snap := mgr.Snapshot()
	user, err := json.MarshalIndent(snap.User, "", "  ")
	if err != nil {
		return 0, err
	}
	designs, err := json.MarshalIndent(snap.Designs, "", "  ")
	if err != nil {
		return 0, err
	}
	entries := []zip.Entry{
		{Name: "user.json", Modified: now, Data: user},
		{Name: "designs.json", Modified: now, Data: designs},
	}
	for _, d := range snap.Designs {
		path, ok := localFile(d.OriginalImage)
		if !ok {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn().Err(err).Str("design", d.ID).Msg("original photo unavailable, skipping")
			continue
		}
		entries = append(entries, zip.Entry{
			Name:     "originals/" + d.ID + filepath.Ext(path),
			Modified: d.CreatedAt,
			Data:     data,
		})
	}

	f, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("create archive: %w", err)
	}
	if err := zip.Write(f, entries); err != nil {
		f.Close()
		return 0, err
	}
	return len(entries), f.Close()
}

func localFile(ref string) (string, bool) {
	if !strings.HasPrefix(ref, "file://") {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Path == "" {
		return "", false
	}
	return u.Path, true
}
