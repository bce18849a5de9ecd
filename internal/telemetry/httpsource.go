package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/yungbote/lexipath/internal/platform/envutil"
	"github.com/yungbote/lexipath/internal/platform/logger"
)

// HTTPSource talks to the review platform's JSON action API: one POST per
// query carrying an action envelope, response as {result, error}.
type HTTPSource struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type srsRequest struct {
	Action  string    `json:"action"`
	Version int       `json:"version"`
	Params  srsParams `json:"params"`
}

type srsParams struct {
	Query string `json:"query,omitempty"`
}

type srsResponse struct {
	Result []RawReviewRecord `json:"result"`
	Error  *string           `json:"error"`
}

// NewHTTPSource builds a connector for the review platform API. baseURL, when
// non-empty, overrides SRS_API_URL; with neither set the local action API
// default applies. SRS_API_KEY is optional.
func NewHTTPSource(log *logger.Logger, baseURL string) (*HTTPSource, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = strings.TrimSpace(os.Getenv("SRS_API_URL"))
	}
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8765"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := time.Duration(envutil.Int("SRS_TIMEOUT_SECONDS", 30)) * time.Second

	return &HTTPSource{
		log:        log.With("service", "TelemetryHTTP"),
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(os.Getenv("SRS_API_KEY")),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (s *HTTPSource) Query(ctx context.Context, filter string) ([]RawReviewRecord, error) {
	body := srsRequest{
		Action:  "reviewRecords",
		Version: 6,
		Params:  srsParams{Query: strings.TrimSpace(filter)},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, wrapErr("query", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, wrapErr("query", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, wrapErr("query", err)
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, wrapErr("query", readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, wrapErr("query", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(raw, 512)))
	}

	var decoded srsResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, wrapErr("query", fmt.Errorf("decode response: %w", err))
	}
	if decoded.Error != nil && strings.TrimSpace(*decoded.Error) != "" {
		return nil, wrapErr("query", fmt.Errorf("api error: %s", *decoded.Error))
	}

	s.log.Debug("Fetched review records", "count", len(decoded.Result), "filter", filter)
	return decoded.Result, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
