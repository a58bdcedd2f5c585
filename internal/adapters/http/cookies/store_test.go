package cookies

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taogaetz/ghost-posters/internal/domain"
)

func newContext(t *testing.T, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func setCookies(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	res := rec.Result()
	for _, cookie := range res.Cookies() {
		out[cookie.Name] = cookie
	}
	return out
}

func TestReadBothCookies(t *testing.T) {
	c, _ := newContext(t,
		&http.Cookie{Name: AccessTokenCookie, Value: "at"},
		&http.Cookie{Name: RefreshTokenCookie, Value: "rt"},
	)
	access, refresh := NewStore(c, 168*time.Hour).Read()
	if access != "at" || refresh != "rt" {
		t.Fatalf("unexpected pair: %q %q", access, refresh)
	}
}

func TestReadMissingCookies(t *testing.T) {
	c, _ := newContext(t)
	access, refresh := NewStore(c, 168*time.Hour).Read()
	if access != "" || refresh != "" {
		t.Fatalf("expected empty pair, got %q %q", access, refresh)
	}
}

func TestWriteSetsBothWithTTLs(t *testing.T) {
	c, rec := newContext(t)
	NewStore(c, 168*time.Hour).Write(domain.Tokens{AccessToken: "at", RefreshToken: "rt", Expires: 900500})

	cookies := setCookies(rec)
	access, ok := cookies[AccessTokenCookie]
	if !ok {
		t.Fatal("access cookie missing")
	}
	refresh, ok := cookies[RefreshTokenCookie]
	if !ok {
		t.Fatal("refresh cookie missing")
	}

	// 900500 ms floors to 900 s; refresh is a fixed 7 days.
	if access.MaxAge != 900 {
		t.Fatalf("access max-age = %d", access.MaxAge)
	}
	if refresh.MaxAge != 604800 {
		t.Fatalf("refresh max-age = %d", refresh.MaxAge)
	}
	for _, cookie := range []*http.Cookie{access, refresh} {
		if !cookie.HttpOnly || cookie.Path != "/" || cookie.SameSite != http.SameSiteLaxMode {
			t.Fatalf("unexpected flags on %s: %+v", cookie.Name, cookie)
		}
		if cookie.Secure {
			t.Fatalf("plain-http request must not set Secure on %s", cookie.Name)
		}
	}
}

func TestWriteSecureOnHTTPS(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXForwardedProto, "https")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewStore(c, 168*time.Hour).Write(domain.Tokens{AccessToken: "at", RefreshToken: "rt", Expires: 900000})
	for name, cookie := range setCookies(rec) {
		if !cookie.Secure {
			t.Fatalf("https request must set Secure on %s", name)
		}
	}
}

func TestClearDeletesBoth(t *testing.T) {
	c, rec := newContext(t,
		&http.Cookie{Name: AccessTokenCookie, Value: "at"},
		&http.Cookie{Name: RefreshTokenCookie, Value: "rt"},
	)
	NewStore(c, 168*time.Hour).Clear()

	cookies := setCookies(rec)
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		cookie, ok := cookies[name]
		if !ok {
			t.Fatalf("%s not cleared", name)
		}
		if cookie.MaxAge >= 0 && cookie.Value != "" {
			t.Fatalf("%s still live: %+v", name, cookie)
		}
	}
}
