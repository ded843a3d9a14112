package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Firebase talks to a Realtime Database over its REST surface. Every store
// primitive is a single HTTP verb against "<base>/<path>.json":
// GET reads, PUT replaces, PATCH merges, DELETE removes, POST pushes with a
// server-assigned id, and equality queries use orderBy/equalTo parameters.
type Firebase struct {
	baseURL string
	auth    string // database secret / legacy auth token, optional
	client  *http.Client
}

// NewFirebase creates a REST client for the database at baseURL. A nil
// httpClient falls back to a client with a 10s timeout.
func NewFirebase(baseURL, authToken string, httpClient *http.Client) *Firebase {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Firebase{
		baseURL: strings.TrimRight(baseURL, "/"),
		auth:    authToken,
		client:  httpClient,
	}
}

func (f *Firebase) endpoint(path string, query url.Values) string {
	if f.auth != "" {
		if query == nil {
			query = url.Values{}
		}
		query.Set("auth", f.auth)
	}
	u := f.baseURL + "/" + path + ".json"
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (f *Firebase) do(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("firebase: encode body: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("firebase: %s: %w", method, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("firebase: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("firebase: %s returned %d: %s", method, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}

func (f *Firebase) Get(ctx context.Context, path string) (json.RawMessage, error) {
	raw, err := f.do(ctx, http.MethodGet, f.endpoint(path, nil), nil)
	if err != nil {
		return nil, err
	}
	if IsEmptyValue(raw) {
		return nil, nil
	}
	return raw, nil
}

func (f *Firebase) Set(ctx context.Context, path string, value any) error {
	_, err := f.do(ctx, http.MethodPut, f.endpoint(path, nil), value)
	return err
}

func (f *Firebase) Update(ctx context.Context, path string, partial map[string]any) error {
	_, err := f.do(ctx, http.MethodPatch, f.endpoint(path, nil), partial)
	return err
}

func (f *Firebase) Delete(ctx context.Context, path string) error {
	_, err := f.do(ctx, http.MethodDelete, f.endpoint(path, nil), nil)
	return err
}

func (f *Firebase) Push(ctx context.Context, collection string, value any) (string, error) {
	raw, err := f.do(ctx, http.MethodPost, f.endpoint(collection, nil), value)
	if err != nil {
		return "", err
	}
	// the RTDB answers a push with {"name": "<new id>"}
	var resp struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("firebase: decode push response: %w", err)
	}
	if resp.Name == "" {
		return "", fmt.Errorf("firebase: push returned no id")
	}
	return resp.Name, nil
}

func (f *Firebase) QueryEqual(ctx context.Context, collection, field string, value any) ([]Entry, error) {
	orderBy, err := json.Marshal(field)
	if err != nil {
		return nil, err
	}
	equalTo, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("orderBy", string(orderBy))
	q.Set("equalTo", string(equalTo))
	raw, err := f.do(ctx, http.MethodGet, f.endpoint(collection, q), nil)
	if err != nil {
		return nil, err
	}
	return DecodeEntries(raw)
}
