package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goodnightlabs/goodnight/internal/api"
	"github.com/goodnightlabs/goodnight/internal/client/models"
	"github.com/goodnightlabs/goodnight/internal/common"
)

// HTTPRemote implements Remote over the JSON document API.
type HTTPRemote struct {
	baseURL string
	hc      *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPRemote builds a Remote for the API at baseURL, e.g.
// "http://127.0.0.1:8080".
func NewHTTPRemote(baseURL string) *HTTPRemote {
	return &HTTPRemote{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *HTTPRemote) SetToken(token string) {
	r.mu.Lock()
	r.token = token
	r.mu.Unlock()
}

func (r *HTTPRemote) Token() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.token
}

func (r *HTTPRemote) Close() error {
	r.hc.CloseIdleConnections()
	return nil
}

// do executes one API request and maps transport and status failures onto
// the shared error taxonomy. A nil out skips body decoding.
func (r *HTTPRemote) do(ctx context.Context, method, path string, authed bool, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token := r.Token()
		if token == "" {
			// No identity: fail fast, no network round trip.
			return common.ErrNotAuthenticated
		}
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := r.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return common.ErrNotAuthenticated
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return common.ErrUserAlreadyExists
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", common.ErrRemoteUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		var er api.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Error != "" {
			return fmt.Errorf("remote error: %s", er.Error)
		}
		return fmt.Errorf("remote error: status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (r *HTTPRemote) Ping(ctx context.Context) error {
	if err := r.do(ctx, http.MethodGet, api.RouteHealth, false, nil, nil); err != nil {
		return fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}
	return nil
}

func (r *HTTPRemote) Register(ctx context.Context, username, password string) error {
	in := api.Credentials{Username: username, Password: password}
	return r.do(ctx, http.MethodPost, api.RouteRegister, false, in, nil)
}

func (r *HTTPRemote) Login(ctx context.Context, username, password string) (string, error) {
	in := api.Credentials{Username: username, Password: password}
	var out api.TokenResponse
	if err := r.do(ctx, http.MethodPost, api.RouteLogin, false, in, &out); err != nil {
		// A 401 on the login route itself means bad credentials.
		if errors.Is(err, common.ErrNotAuthenticated) {
			return "", common.ErrInvalidCredentials
		}
		return "", err
	}
	r.SetToken(out.AccessToken)
	return out.UserID, nil
}

func (r *HTTPRemote) Upsert(ctx context.Context, entry *models.Entry) error {
	doc := entry.ToDocument()
	return r.do(ctx, http.MethodPut, api.RouteEntries+"/"+entry.DayKey(), true, doc, nil)
}

func (r *HTTPRemote) Fetch(ctx context.Context, day string) (*models.Entry, error) {
	var doc api.Document
	err := r.do(ctx, http.MethodGet, api.RouteEntries+"/"+day, true, nil, &doc)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return models.FromDocument(doc), nil
}

func (r *HTTPRemote) FetchCompletedSince(ctx context.Context, since *time.Time) ([]*models.Entry, error) {
	q := url.Values{}
	q.Set("completed", "true")
	if since != nil {
		q.Set("since", since.Format(time.RFC3339Nano))
	}

	var out api.ListResponse
	if err := r.do(ctx, http.MethodGet, api.RouteEntries+"?"+q.Encode(), true, nil, &out); err != nil {
		return nil, err
	}

	result := make([]*models.Entry, 0, len(out.Entries))
	for _, doc := range out.Entries {
		result = append(result, models.FromDocument(doc))
	}
	return result, nil
}

func (r *HTTPRemote) Delete(ctx context.Context, day string) error {
	err := r.do(ctx, http.MethodDelete, api.RouteEntries+"/"+day, true, nil, nil)
	if errors.Is(err, common.ErrNotFound) {
		// Idempotent: the document is gone either way.
		return nil
	}
	return err
}

func (r *HTTPRemote) PresignBackup(ctx context.Context) (string, string, error) {
	var out api.PresignResponse
	if err := r.do(ctx, http.MethodPost, api.RouteBackupPresign, true, nil, &out); err != nil {
		return "", "", err
	}
	return out.Key, out.URL, nil
}
