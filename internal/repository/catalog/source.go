package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/philodex/internal/domain"
	"github.com/kailas-cloud/philodex/internal/domain/philosopher"
)

// maxPayloadBytes caps the size of the catalog asset.
const maxPayloadBytes = 16 << 20

type format int

const (
	formatJSON format = iota
	formatYAML
)

// Source loads the static catalog asset from an http(s) URL or a local file.
type Source struct {
	location string
	client   *http.Client
	logger   *zap.Logger
}

// New creates a catalog source. timeout bounds the HTTP fetch; a zero timeout disables it.
func New(location string, timeout time.Duration, logger *zap.Logger) *Source {
	return &Source{
		location: location,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// WithHTTPClient replaces the HTTP client used for remote sources.
func (s *Source) WithHTTPClient(c *http.Client) *Source {
	s.client = c
	return s
}

// Location returns the configured URL or path.
func (s *Source) Location() string { return s.location }

// Load fetches, decodes and validates the catalog. Any failure wraps domain.ErrDataLoad.
// Rejected entries are logged and skipped; a catalog with no valid entry is a failure.
func (s *Source) Load(ctx context.Context) ([]philosopher.Philosopher, error) {
	data, f, err := s.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDataLoad, err)
	}

	rows, err := decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrDataLoad, s.location, err)
	}

	records, rejected := toDomain(rows)
	for _, r := range rejected {
		s.logger.Warn("Catalog entry rejected", zap.String("source", s.location), zap.Error(r))
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s contains no valid entries", domain.ErrDataLoad, s.location)
	}

	s.logger.Debug("Catalog decoded",
		zap.String("source", s.location),
		zap.Int("entries", len(rows)),
		zap.Int("accepted", len(records)),
		zap.Int("rejected", len(rejected)),
	)
	return records, nil
}

func (s *Source) fetch(ctx context.Context) ([]byte, format, error) {
	if isRemote(s.location) {
		return s.fetchHTTP(ctx)
	}

	data, err := os.ReadFile(filepath.Clean(s.location))
	if err != nil {
		return nil, formatJSON, fmt.Errorf("read %s: %w", s.location, err)
	}
	return data, formatFromExt(filepath.Ext(s.location)), nil
}

func (s *Source) fetchHTTP(ctx context.Context) ([]byte, format, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, http.NoBody)
	if err != nil {
		return nil, formatJSON, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, formatJSON, fmt.Errorf("GET %s: %w", s.location, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, formatJSON, fmt.Errorf("GET %s: unexpected status %d", s.location, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes+1))
	if err != nil {
		return nil, formatJSON, fmt.Errorf("read body: %w", err)
	}
	if len(data) > maxPayloadBytes {
		return nil, formatJSON, fmt.Errorf("GET %s: payload exceeds %d bytes", s.location, maxPayloadBytes)
	}

	f := formatFromExt(path.Ext(req.URL.Path))
	if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil {
		switch {
		case strings.Contains(mt, "yaml"):
			f = formatYAML
		case strings.Contains(mt, "json"):
			f = formatJSON
		}
	}
	return data, f, nil
}

func decode(data []byte, f format) ([]philosopherRow, error) {
	var rows []philosopherRow
	switch f {
	case formatYAML:
		if err := yaml.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
	}
	return rows, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func formatFromExt(ext string) format {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}
