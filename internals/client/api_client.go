// Package client adalah sisi pemakai API: HTTP client untuk /api dan controller
// state per halaman (load/search/modal/confirm) yang sama untuk semua entity.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"pesantren_backend/internals/helpers/apperror"
)

type Record = map[string]any

// Doer: *http.Client memenuhi interface ini; test memakai adapter ke fiber app.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Session: objek user hasil login yang disimpan client.
type Session struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	Fullname  string `json:"fullname"`
	Token     string `json:"token,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

type SaveResult struct {
	Success  bool  `json:"success"`
	ID       int64 `json:"id"`
	Created  bool  `json:"created"`
	Affected int64 `json:"affected"`
}

type APIClient struct {
	baseURL string
	http    Doer
	session *Session
}

// NewAPIClient: baseURL menunjuk ke endpoint API, mis. "https://host/api".
func NewAPIClient(baseURL string, doer Doer) *APIClient {
	if doer == nil {
		doer = &http.Client{Timeout: 15 * time.Second}
	}
	return &APIClient{baseURL: strings.TrimRight(baseURL, "/"), http: doer}
}

func (c *APIClient) Session() *Session { return c.session }

// SetSession dipakai kalau session dipulihkan dari penyimpanan lokal.
func (c *APIClient) SetSession(s *Session) { c.session = s }

/* ===============================
   Actions
=================================*/

func (c *APIClient) Ping(ctx context.Context) error {
	return c.request(ctx, http.MethodGet, "ping", nil, nil, nil)
}

func (c *APIClient) Login(ctx context.Context, username, password string) (*Session, error) {
	var s Session
	in := map[string]string{"username": username, "password": password}
	if err := c.request(ctx, http.MethodPost, "login", nil, in, &s); err != nil {
		return nil, err
	}
	c.session = &s
	return &s, nil
}

func (c *APIClient) Logout() { c.session = nil }

func (c *APIClient) List(ctx context.Context, entity string) ([]Record, error) {
	rows := make([]Record, 0)
	q := url.Values{"type": {entity}}
	if err := c.request(ctx, http.MethodGet, "getData", q, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *APIClient) Get(ctx context.Context, entity string, id int64) (Record, error) {
	var row Record
	q := url.Values{"type": {entity}, "id": {strconv.FormatInt(id, 10)}}
	if err := c.request(ctx, http.MethodGet, "getData", q, nil, &row); err != nil {
		return nil, err
	}
	return row, nil
}

func (c *APIClient) Save(ctx context.Context, entity string, record Record) (SaveResult, error) {
	var res SaveResult
	err := c.request(ctx, http.MethodPost, "saveData", url.Values{"type": {entity}}, record, &res)
	return res, err
}

func (c *APIClient) Delete(ctx context.Context, entity string, id int64) error {
	q := url.Values{"type": {entity}, "id": {strconv.FormatInt(id, 10)}}
	return c.request(ctx, http.MethodPost, "deleteData", q, nil, nil)
}

func (c *APIClient) QuickStats(ctx context.Context) (map[string]float64, error) {
	out := map[string]float64{}
	if err := c.request(ctx, http.MethodGet, "getQuickStats", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) FileSignature(ctx context.Context, params map[string]any) (map[string]any, error) {
	out := map[string]any{}
	if err := c.request(ctx, http.MethodPost, "file-signature", nil, params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

/* ===============================
   Transport
=================================*/

func (c *APIClient) request(ctx context.Context, method, action string, q url.Values, in any, out any) error {
	if q == nil {
		q = url.Values{}
	}
	q.Set("action", action)

	var body io.Reader
	if in != nil {
		raw, err := sonic.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"?"+q.Encode(), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s := c.session; s != nil {
		req.Header.Set("X-User", s.Username)
		if s.Token != "" {
			req.Header.Set("Authorization", "Bearer "+s.Token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, payload)
	}
	if out == nil || len(payload) == 0 {
		return nil
	}
	return sonic.Unmarshal(payload, out)
}

// decodeError: body {status:"error", error, message, details?} → *apperror.Error.
// Body lama {error:"pesan"} juga diterima.
func decodeError(status int, payload []byte) error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Details any    `json:"details"`
	}
	if err := sonic.Unmarshal(payload, &body); err != nil || body.Error == "" {
		return &apperror.Error{
			Code:    apperror.CodeInternal,
			Status:  status,
			Message: fmt.Sprintf("api error (%d): %s", status, strings.TrimSpace(string(payload))),
		}
	}
	if body.Message == "" {
		return &apperror.Error{Code: apperror.CodeInternal, Status: status, Message: body.Error}
	}
	return &apperror.Error{Code: body.Error, Status: status, Message: body.Message, Details: body.Details}
}
