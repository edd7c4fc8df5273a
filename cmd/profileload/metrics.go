package main

import (
	"go.uber.org/zap"

	"profileload/internal/config"
	"profileload/internal/metrics"
	"profileload/internal/metrics/datadog"
	"profileload/internal/metrics/prompush"
)

// setupMetrics installs the configured backend and returns a function that
// flushes it and restores the previous one. A backend that cannot be built
// leaves metrics disabled; it never fails the run.
func setupMetrics(cfg config.Config, log *zap.Logger) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch cfg.Metrics.Backend {
	case "pushgateway":
		b, err = newPushBackend(cfg)
	case "datadog":
		b, err = newDatadogBackend(cfg)
	case "", "none":
		log.Debug("metrics disabled")
		return func() {}
	default:
		log.Warn("unknown metrics backend; metrics disabled", zap.String("backend", cfg.Metrics.Backend))
		return func() {}
	}
	if err != nil {
		log.Warn("metrics backend unavailable; using nop", zap.String("backend", cfg.Metrics.Backend), zap.Error(err))
		return func() {}
	}

	log.Debug("metrics enabled", zap.String("backend", cfg.Metrics.Backend))
	prev := metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics flush failed", zap.Error(err))
		}
		metrics.SetBackend(prev)
	}
}

func newPushBackend(cfg config.Config) (metrics.Backend, error) {
	b, err := prompush.NewBackend(cfg.Job, cfg.Metrics.PushgatewayURL)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func newDatadogBackend(cfg config.Config) (metrics.Backend, error) {
	b, err := datadog.NewBackend(datadog.Config{
		Addr:       cfg.Metrics.DatadogAddr,
		Namespace:  "profileload.",
		GlobalTags: []string{"job:" + cfg.Job},
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}
