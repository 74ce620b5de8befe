package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"go.uber.org/zap"
	"token-forge.backend/pkg/logger"
)

const pinMaxRetries = 3

// PinStore uploads assets to a remote content-addressed pinning service.
// The returned URL is derived from the content's CID, so the same bytes
// always map to the same URL regardless of which node pinned them.
type PinStore struct {
	endpoint   string
	token      string
	gatewayURL string
	httpClient *http.Client
}

// NewPinStore creates a new pinning store client
func NewPinStore(endpoint, token, gatewayURL string) *PinStore {
	return &PinStore{
		endpoint:   endpoint,
		token:      token,
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Configured reports whether a remote endpoint is set
func (s *PinStore) Configured() bool {
	return s.endpoint != ""
}

// Store pins the content and returns its gateway URL
func (s *PinStore) Store(ctx context.Context, data []byte, suggestedName string) (string, error) {
	if !s.Configured() {
		return "", fmt.Errorf("pin store not configured")
	}

	contentCID, err := computeCID(data)
	if err != nil {
		return "", fmt.Errorf("failed to compute cid: %w", err)
	}

	operation := func() error {
		return s.pin(ctx, data, suggestedName)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), pinMaxRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", fmt.Errorf("pin upload failed: %w", err)
	}

	url := s.gatewayURL + "/" + contentCID.String()
	logger.Debug(ctx, "Pinned asset", zap.String("cid", contentCID.String()), zap.String("url", url))
	return url, nil
}

func (s *PinStore) pin(ctx context.Context, data []byte, suggestedName string) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", suggestedName)
	if err != nil {
		return backoff.Permanent(err)
	}
	if _, err := part.Write(data); err != nil {
		return backoff.Permanent(err)
	}
	if err := writer.Close(); err != nil {
		return backoff.Permanent(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &body)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("pin service returned status %d", resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		// Client errors will not heal on retry.
		return backoff.Permanent(fmt.Errorf("pin service rejected upload with status %d", resp.StatusCode))
	}
	return nil
}

// computeCID derives the CIDv1 (raw codec, sha2-256) of the content
func computeCID(data []byte) (cid.Cid, error) {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}
