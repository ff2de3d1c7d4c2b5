package docstore

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/qfvjug/internal/logging"
)

const (
	rtdbMinBackoff = 500 * time.Millisecond
	rtdbMaxBackoff = 30 * time.Second
)

// RTDB talks to a Firebase Realtime Database through its REST interface.
// Watch uses the database's event stream and re-reads the watched path on
// every put or patch so consumers always receive full values.
type RTDB struct {
	baseURL *url.URL
	secret  string
	client  *http.Client
	logger  logging.Logger

	// streamClient has no timeout; streams stay open until cancelled.
	streamClient *http.Client
}

// NewRTDB returns a store for the database at baseURL. secret, when set, is
// sent as the auth query parameter.
func NewRTDB(baseURL, secret string, client *http.Client, logger logging.Logger) (*RTDB, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse database url: %q is not absolute", baseURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &RTDB{
		baseURL:      u,
		secret:       secret,
		client:       client,
		logger:       logger,
		streamClient: &http.Client{Transport: client.Transport},
	}, nil
}

func (r *RTDB) endpoint(parts []string) string {
	u := *r.baseURL
	u.Path = u.Path + "/" + strings.Join(parts, "/") + ".json"
	if r.secret != "" {
		q := u.Query()
		q.Set("auth", r.secret)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (r *RTDB) do(ctx context.Context, method string, parts []string, body json.RawMessage) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.endpoint(parts), rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s: %s: %s", method, strings.Join(parts, "/"), resp.Status, strings.TrimSpace(rtdbError(data)))
	}
	return data, nil
}

func rtdbError(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return string(body)
}

func (r *RTDB) Get(ctx context.Context, path string) (json.RawMessage, error) {
	parts, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	data, err := r.do(ctx, http.MethodGet, parts, nil)
	if err != nil {
		return nil, err
	}
	if isNull(data) {
		return nil, nil
	}
	return json.RawMessage(data), nil
}

func (r *RTDB) Set(ctx context.Context, path string, value any) error {
	parts, err := splitPath(path)
	if err != nil {
		return err
	}
	raw, err := encode(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if isNull(raw) {
		_, err = r.do(ctx, http.MethodDelete, parts, nil)
		return err
	}
	_, err = r.do(ctx, http.MethodPut, parts, raw)
	return err
}

func (r *RTDB) Push(ctx context.Context, path string, value any) (string, error) {
	parts, err := splitPath(path)
	if err != nil {
		return "", err
	}
	raw, err := encode(value)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	data, err := r.do(ctx, http.MethodPost, parts, raw)
	if err != nil {
		return "", err
	}
	var res struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return "", fmt.Errorf("decode push response: %w", err)
	}
	if res.Name == "" {
		return "", errors.New("push response without key")
	}
	return res.Name, nil
}

func (r *RTDB) Remove(ctx context.Context, path string) error {
	parts, err := splitPath(path)
	if err != nil {
		return err
	}
	_, err = r.do(ctx, http.MethodDelete, parts, nil)
	return err
}

func (r *RTDB) Watch(ctx context.Context, path string) (<-chan json.RawMessage, error) {
	parts, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	ch := make(chan json.RawMessage, 1)
	go func() {
		defer close(ch)
		backoff := rtdbMinBackoff
		for {
			err := r.stream(ctx, parts, ch)
			if ctx.Err() != nil {
				return
			}
			if err == nil {
				backoff = rtdbMinBackoff
			} else {
				r.logger.Warn(ctx, "realtime stream dropped", "path", path, "error", err, "retry_in", backoff)
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, rtdbMaxBackoff)
		}
	}()
	return ch, nil
}

// stream holds one event-stream connection open until it ends.
func (r *RTDB) stream(ctx context.Context, parts []string, ch chan json.RawMessage) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint(parts), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := r.streamClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stream %s: %s", strings.Join(parts, "/"), resp.Status)
	}

	var event string
	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case line == "":
			if err := r.dispatch(ctx, event, parts, ch); err != nil {
				return err
			}
			event = ""
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return nil
}

func (r *RTDB) dispatch(ctx context.Context, event string, parts []string, ch chan json.RawMessage) error {
	switch event {
	case "put", "patch":
		data, err := r.do(ctx, http.MethodGet, parts, nil)
		if err != nil {
			return err
		}
		if isNull(data) {
			data = nil
		}
		offer(ch, data)
	case "cancel", "auth_revoked":
		return fmt.Errorf("stream closed by server: %s", event)
	}
	return nil
}

// Close is a no-op; streams end with their contexts.
func (r *RTDB) Close() error {
	r.client.CloseIdleConnections()
	return nil
}
