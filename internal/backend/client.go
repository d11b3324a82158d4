package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Upstream endpoint paths. Spellings match the deployed service, typos
// included; changing them here would break the integration.
const (
	pathTurrets           = "/turrets"
	pathActiveTurrets     = "/turrets/active"
	pathDevices           = "/ipPhones"
	pathCallAudit         = "/audit/getAllData"
	pathIPPhoneAudit      = "/ipPhoneAdit/getAllData"
	pathIPPhoneDisconnect = "/ipPhoneDisconnect/getAllData"
	pathTurretDisconnect  = "/turretDisconnect/getAllData"
)

// APIError is any non-2xx response from the upstream service. All upstream
// failures look the same to callers: a status and whatever body came back.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %s: %s", e.Status, strings.TrimSpace(e.Body))
}

// Client is a typed HTTP client for the turret inventory service. It holds
// no state beyond the connection pool; every call takes a context.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// --- Turret inventory ---

func (c *Client) ListTurrets(ctx context.Context) ([]Turret, error) {
	return getList[Turret](ctx, c, pathTurrets)
}

func (c *Client) ListActiveTurrets(ctx context.Context) ([]Turret, error) {
	return getList[Turret](ctx, c, pathActiveTurrets)
}

func (c *Client) CreateTurret(ctx context.Context, t Turret) (Turret, error) {
	var out Turret
	err := c.do(ctx, http.MethodPost, pathTurrets, t, &out)
	return out, err
}

func (c *Client) UpdateTurret(ctx context.Context, id string, t Turret) (Turret, error) {
	t.ID = id
	var out Turret
	err := c.do(ctx, http.MethodPut, pathTurrets+"/"+id, t, &out)
	return out, err
}

func (c *Client) DeleteTurret(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pathTurrets+"/"+id, nil, nil)
}

// --- IP phone inventory ---

func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	return getList[Device](ctx, c, pathDevices)
}

func (c *Client) CreateDevice(ctx context.Context, d Device) (Device, error) {
	var out Device
	err := c.do(ctx, http.MethodPost, pathDevices, d, &out)
	return out, err
}

func (c *Client) UpdateDevice(ctx context.Context, id string, d Device) (Device, error) {
	d.ID = id
	var out Device
	err := c.do(ctx, http.MethodPut, pathDevices+"/"+id, d, &out)
	return out, err
}

func (c *Client) DeleteDevice(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pathDevices+"/"+id, nil, nil)
}

// --- Reports ---

func (c *Client) CallAudit(ctx context.Context) ([]CallAuditRow, error) {
	return getList[CallAuditRow](ctx, c, pathCallAudit)
}

func (c *Client) IPPhoneAudit(ctx context.Context) ([]IPPhoneAuditRow, error) {
	return getList[IPPhoneAuditRow](ctx, c, pathIPPhoneAudit)
}

func (c *Client) IPPhoneDisconnects(ctx context.Context) ([]IPPhoneDisconnectRow, error) {
	return getList[IPPhoneDisconnectRow](ctx, c, pathIPPhoneDisconnect)
}

func (c *Client) TurretDisconnects(ctx context.Context) ([]TurretDisconnectRow, error) {
	return getList[TurretDisconnectRow](ctx, c, pathTurretDisconnect)
}

// --- plumbing ---

// pageEnvelope is the paginated variant some deployments of the upstream
// return instead of a bare array.
type pageEnvelope[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
	Size          int `json:"size"`
}

// getList fetches a collection resource, accepting either a bare JSON
// array or the paginated envelope.
func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	var rows []T
	if err := json.Unmarshal(raw, &rows); err == nil {
		return rows, nil
	}

	var env pageEnvelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("backend: decode %s: %w", path, err)
	}
	return env.Content, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("backend: encode %s: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("backend: build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend: read %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(data)}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("backend: decode %s: %w", path, err)
		}
	}
	return nil
}
