// Package handlers serves the generation proxy endpoints on top of an
// imagegen.Generator.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"interiorai/internal/imagegen"
)

const defaultMaxUpload = 10 << 20

type App struct {
	Generator imagegen.Generator
	Logger    zerolog.Logger
	MaxUpload int64

	started time.Time
}

func NewApp(gen imagegen.Generator, logger zerolog.Logger, maxUpload int64) *App {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	return &App{Generator: gen, Logger: logger, MaxUpload: maxUpload, started: time.Now()}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error writes the body shape the generation client reads back.
func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}
