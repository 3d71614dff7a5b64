package imagegen

import (
	"github.com/rs/zerolog"

	"interiorai/internal/infra"
)

// FromConfig selects the generator variant named by cfg.GenerationClient.
func FromConfig(cfg *infra.Config, logger *zerolog.Logger) Generator {
	if cfg.GenerationClient == infra.GenerationClientCanned {
		return NewCannedClient(CannedOptions{Latency: cfg.CannedLatency})
	}
	return NewHTTPClient(HTTPOptions{
		BaseURL: cfg.GenerationBaseURL,
		Timeout: cfg.GenerationTimeout,
		Logger:  logger,
	})
}
