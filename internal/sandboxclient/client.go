package sandboxclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"judgecore/internal/judgeerr"
)

// Client is the judge pipeline's façade over the external sandbox process.
type Client interface {
	Init(ctx context.Context, cfg InitConfig) error
	Exec(ctx context.Context, req ExecRequest) (ExecResponse, error)
	FileDelete(ctx context.Context, fileID string) error
	DiffStrict(a, b []byte) bool
	DiffIgnoreTrailingSpace(a, b []byte) bool
}

// HTTPClient is the production Client backed by the sandbox's HTTP API.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
}

// New builds an HTTPClient targeting the sandbox listening at baseURL.
func New(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) Init(ctx context.Context, cfg InitConfig) error {
	body, err := json.Marshal(cfg)
	if err != nil {
		return judgeerr.Wrap(err, judgeerr.SandboxFailure)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/init", bytes.NewReader(body))
	if err != nil {
		return judgeerr.Wrap(err, judgeerr.SandboxFailure)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return judgeerr.Wrap(err, judgeerr.SandboxFailure)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return judgeerr.Newf(judgeerr.SandboxFailure, "sandbox init returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) Exec(ctx context.Context, execReq ExecRequest) (ExecResponse, error) {
	body, err := json.Marshal(execReq)
	if err != nil {
		return ExecResponse{}, judgeerr.Wrap(err, judgeerr.SandboxFailure)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/run", bytes.NewReader(body))
	if err != nil {
		return ExecResponse{}, judgeerr.Wrap(err, judgeerr.SandboxFailure)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return ExecResponse{}, judgeerr.Wrap(err, judgeerr.SandboxFailure)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return ExecResponse{}, judgeerr.Newf(judgeerr.SandboxFailure, "sandbox exec returned status %d", resp.StatusCode)
	}
	var out ExecResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ExecResponse{}, judgeerr.Wrap(err, judgeerr.SandboxFailure)
	}
	return out, nil
}

func (c *HTTPClient) FileDelete(ctx context.Context, fileID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/file/%s", c.baseURL, fileID), nil)
	if err != nil {
		return judgeerr.Wrap(err, judgeerr.LifecycleWarning)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return judgeerr.Wrap(err, judgeerr.LifecycleWarning)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return judgeerr.Newf(judgeerr.LifecycleWarning, "delete cached file %s failed: status %d", fileID, resp.StatusCode)
	}
	return nil
}

// DiffStrict reports whether a and b are byte-for-byte identical. It never
// leaves the process: the sandbox's comparison primitives are pure
// byte-buffer predicates, so there is no round trip to make.
func (c *HTTPClient) DiffStrict(a, b []byte) bool {
	return bytes.Equal(a, b)
}

// DiffIgnoreTrailingSpace reports whether a and b are equal once each line
// has its trailing whitespace stripped and trailing blank lines dropped.
func (c *HTTPClient) DiffIgnoreTrailingSpace(a, b []byte) bool {
	return normalizeLines(a) == normalizeLines(b)
}

func normalizeLines(buf []byte) string {
	lines := bytes.Split(buf, []byte("\n"))
	trimmed := make([][]byte, 0, len(lines))
	for _, line := range lines {
		trimmed = append(trimmed, bytes.TrimRight(line, " \t\r"))
	}
	for len(trimmed) > 0 && len(trimmed[len(trimmed)-1]) == 0 {
		trimmed = trimmed[:len(trimmed)-1]
	}
	return string(bytes.Join(trimmed, []byte("\n")))
}
