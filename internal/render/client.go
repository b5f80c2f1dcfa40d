// Package render wraps the external video composition service. The service
// exposes a submit-then-poll REST contract: a render request returns a job
// ID, and the job is observed to completion by polling its status.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Render job states reported by the service. done and failed are terminal.
type State string

const (
	StateQueued    State = "queued"
	StateFetching  State = "fetching"
	StateRendering State = "rendering"
	StateSaving    State = "saving"
	StateDone      State = "done"
	StateFailed    State = "failed"
)

// Status is one observation of a render job.
type Status struct {
	State State  // current job state
	URL   string // artifact URL, set when State is done
	Error string // failure reason, set when State is failed
}

// Client is a client for the render service API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a render service client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// clipLength is the fixed per-clip length, in the service's time units,
// of each of the three source tracks.
const clipLength = 10

type clip struct {
	Asset struct {
		Type string `json:"type"`
		Src  string `json:"src"`
	} `json:"asset"`
	Start  int `json:"start"`
	Length int `json:"length"`
}

type track struct {
	Clips []clip `json:"clips"`
}

type renderRequest struct {
	Timeline struct {
		Background string  `json:"background"`
		Tracks     []track `json:"tracks"`
	} `json:"timeline"`
	Output struct {
		Format     string `json:"format"`
		Resolution string `json:"resolution"`
	} `json:"output"`
}

type renderResponse struct {
	Response struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		URL    string `json:"url"`
		Error  string `json:"error"`
	} `json:"response"`
}

// Submit sends a three-track composition request, one source clip per
// track, and returns the render job ID.
func (c *Client) Submit(ctx context.Context, src1, src2, src3 string) (string, error) {
	var payload renderRequest
	payload.Timeline.Background = "#000000"
	for _, src := range []string{src1, src2, src3} {
		var cl clip
		cl.Asset.Type = "video"
		cl.Asset.Src = src
		cl.Start = 0
		cl.Length = clipLength
		payload.Timeline.Tracks = append(payload.Timeline.Tracks, track{Clips: []clip{cl}})
	}
	payload.Output.Format = "mp4"
	payload.Output.Resolution = "sd"

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding render request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("render submit failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("render submit failed (status %d): %s", resp.StatusCode, b)
	}

	var out renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding render response: %w", err)
	}
	if out.Response.ID == "" {
		return "", fmt.Errorf("render service returned no job id")
	}
	return out.Response.ID, nil
}

// Status fetches the current state of a render job.
func (c *Client) Status(ctx context.Context, renderID string) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/render/"+renderID, nil)
	if err != nil {
		return Status{}, err
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Status{}, fmt.Errorf("render status failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return Status{}, fmt.Errorf("render status failed (status %d): %s", resp.StatusCode, b)
	}

	var out renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Status{}, fmt.Errorf("decoding render status: %w", err)
	}
	st := Status{
		State: State(out.Response.Status),
		URL:   out.Response.URL,
		Error: out.Response.Error,
	}
	if st.State == "" {
		st.State = StateFailed
	}
	return st, nil
}
