package ghost

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/taogaetz/ghost-posters/internal/domain"
)

const memberAPIPath = "/members/api/member"

// Client resolves the authenticated Ghost member for a pair of session
// cookies. A nil member with a nil error means "not logged in".
type Client interface {
	Member(ctx context.Context, ssr, sig string) (*domain.Member, error)
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) Client {
	return &httpClient{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

func (c *httpClient) Member(ctx context.Context, ssr, sig string) (*domain.Member, error) {
	if ssr == "" || sig == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+memberAPIPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cookie", fmt.Sprintf("ghost-members-ssr=%s; ghost-members-ssr.sig=%s", ssr, sig))
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	// Ghost answers 401/403 for expired or invalid sessions; that is an
	// ordinary logged-out state, not an error.
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, nil
	}

	member := &domain.Member{}
	if err := json.NewDecoder(res.Body).Decode(member); err != nil {
		return nil, err
	}
	return member, nil
}
