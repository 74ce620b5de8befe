package storage

import (
	"context"

	"go.uber.org/zap"
	"token-forge.backend/internal/metrics"
	"token-forge.backend/pkg/logger"
)

// FallbackStore prefers the remote content-addressed store and falls back
// to local disk when the remote is unconfigured or failing. Callers only
// ever see a URL; which backend produced it is an implementation detail.
type FallbackStore struct {
	remote *PinStore
	local  *LocalStore
}

// NewFallbackStore composes the remote and local stores
func NewFallbackStore(remote *PinStore, local *LocalStore) *FallbackStore {
	return &FallbackStore{
		remote: remote,
		local:  local,
	}
}

// Store stores the asset, remote first
func (s *FallbackStore) Store(ctx context.Context, data []byte, suggestedName string) (string, error) {
	if s.remote != nil && s.remote.Configured() {
		url, err := s.remote.Store(ctx, data, suggestedName)
		if err == nil {
			metrics.LogoUploads.WithLabelValues("remote").Inc()
			return url, nil
		}
		logger.Warn(ctx, "Remote asset store failed, falling back to local",
			zap.String("name", suggestedName),
			zap.Error(err),
		)
	}

	url, err := s.local.Store(ctx, data, suggestedName)
	if err != nil {
		return "", err
	}
	metrics.LogoUploads.WithLabelValues("local").Inc()
	return url, nil
}
