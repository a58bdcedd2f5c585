package directus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/taogaetz/ghost-posters/internal/domain"
)

// Client is the narrow slice of the Directus REST surface this service uses.
// A client built with a token attaches it to every request; auth operations
// work on a tokenless client.
type Client interface {
	Login(ctx context.Context, email, password string) (*domain.Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.Tokens, error)

	UserByEmail(ctx context.Context, email string) (*domain.Account, error)
	CreateUser(ctx context.Context, account domain.AccountCreation) (*domain.Account, error)

	Me(ctx context.Context) (*domain.Account, error)
	UpdateMe(ctx context.Context, fields map[string]any) (*domain.Account, error)

	CreateThread(ctx context.Context, thread domain.ThreadCreation) (*domain.Thread, error)
	Thread(ctx context.Context, id string) (*domain.Thread, error)
	UploadFile(ctx context.Context, filename string, content io.Reader) (*domain.File, error)
}

// ClientFactory hands out clients bound to a bearer token.
type ClientFactory interface {
	Client(token string) Client
}

// Factory builds clients bound to one Directus instance. Handlers get
// per-request clients carrying the member's access token; the identity bridge
// holds the only admin-token client.
type Factory struct {
	baseURL string
	timeout time.Duration
}

func NewFactory(baseURL string, timeout time.Duration) *Factory {
	return &Factory{baseURL: baseURL, timeout: timeout}
}

// Client returns a client that sends the given bearer token with every
// request. An empty token yields an unauthenticated client.
func (f *Factory) Client(token string) Client {
	return &httpClient{
		baseURL: f.baseURL,
		token:   token,
		client:  &http.Client{Timeout: f.timeout},
	}
}

type httpClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func (c *httpClient) Login(ctx context.Context, email, password string) (*domain.Tokens, error) {
	payload := map[string]string{"email": email, "password": password}
	var out domain.Tokens
	if err := c.request(ctx, http.MethodPost, "/auth/login", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) Refresh(ctx context.Context, refreshToken string) (*domain.Tokens, error) {
	payload := map[string]string{"refresh_token": refreshToken, "mode": "json"}
	var out domain.Tokens
	if err := c.request(ctx, http.MethodPost, "/auth/refresh", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) UserByEmail(ctx context.Context, email string) (*domain.Account, error) {
	path := fmt.Sprintf("/users?filter[email][_eq]=%s&limit=1", url.QueryEscape(email))
	var out []domain.Account
	if err := c.request(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (c *httpClient) CreateUser(ctx context.Context, account domain.AccountCreation) (*domain.Account, error) {
	var out domain.Account
	if err := c.request(ctx, http.MethodPost, "/users", account, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) Me(ctx context.Context) (*domain.Account, error) {
	var out domain.Account
	if err := c.request(ctx, http.MethodGet, "/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) UpdateMe(ctx context.Context, fields map[string]any) (*domain.Account, error) {
	var out domain.Account
	if err := c.request(ctx, http.MethodPatch, "/users/me", fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) CreateThread(ctx context.Context, thread domain.ThreadCreation) (*domain.Thread, error) {
	var out domain.Thread
	if err := c.request(ctx, http.MethodPost, "/items/threads", thread, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) Thread(ctx context.Context, id string) (*domain.Thread, error) {
	var out domain.Thread
	if err := c.request(ctx, http.MethodGet, "/items/threads/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) UploadFile(ctx context.Context, filename string, content io.Reader) (*domain.File, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	var out domain.File
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// request marshals payload (when non-nil), issues the call and decodes the
// response's data envelope into out.
func (c *httpClient) request(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)
	return c.do(req, out)
}

func (c *httpClient) do(req *http.Request, out interface{}) error {
	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return fmt.Errorf("directus: %s %s: %d %s: %s", req.Method, req.URL.Path, res.StatusCode, http.StatusText(res.StatusCode), bytes.TrimSpace(raw))
	}
	if out == nil {
		return nil
	}
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return err
	}
	return json.Unmarshal(envelope.Data, out)
}

func (c *httpClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
