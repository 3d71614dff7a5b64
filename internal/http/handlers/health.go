package handlers

import (
	"net/http"
	"time"
)

// Health is the liveness probe; it never calls the generator.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(a.started).Round(time.Second).String(),
	})
}
