package directus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/taogaetz/ghost-posters/internal/domain"
)

func testFactory(srv *httptest.Server) *Factory {
	return NewFactory(srv.URL, time.Second)
}

func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "user@example.com" || body["password"] != "secret" {
			t.Fatalf("unexpected payload: %+v", body)
		}
		fmt.Fprint(w, `{"data":{"access_token":"at","refresh_token":"rt","expires":900000}}`)
	}))
	defer srv.Close()

	tokens, err := testFactory(srv).Client("").Login(context.Background(), "user@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.AccessToken != "at" || tokens.RefreshToken != "rt" || tokens.Expires != 900000 {
		t.Fatalf("unexpected tokens: %+v", tokens)
	}
}

func TestLoginFailureEmbedsStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"errors":[{"message":"Invalid user credentials."}]}`)
	}))
	defer srv.Close()

	_, err := testFactory(srv).Client("").Login(context.Background(), "user@example.com", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "Invalid user credentials") {
		t.Fatalf("error should embed status and body: %v", err)
	}
}

func TestRefreshSendsJSONMode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/refresh" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["refresh_token"] != "rt-1" || body["mode"] != "json" {
			t.Fatalf("unexpected payload: %+v", body)
		}
		fmt.Fprint(w, `{"data":{"access_token":"at-2","refresh_token":"rt-2","expires":900000}}`)
	}))
	defer srv.Close()

	tokens, err := testFactory(srv).Client("").Refresh(context.Background(), "rt-1")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if tokens.AccessToken != "at-2" {
		t.Fatalf("unexpected tokens: %+v", tokens)
	}
}

func TestUserByEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer admin-token" {
			t.Fatalf("unexpected authorization: %q", got)
		}
		q := r.URL.Query()
		if q.Get("filter[email][_eq]") != "user@example.com" || q.Get("limit") != "1" {
			t.Fatalf("unexpected query: %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"data":[{"id":"acc-1","email":"user@example.com","status":"active"}]}`)
	}))
	defer srv.Close()

	account, err := testFactory(srv).Client("admin-token").UserByEmail(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if account == nil || account.ID != "acc-1" {
		t.Fatalf("unexpected account: %+v", account)
	}
}

func TestUserByEmailNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer srv.Close()

	account, err := testFactory(srv).Client("admin-token").UserByEmail(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if account != nil {
		t.Fatalf("expected nil account, got %+v", account)
	}
}

func TestCreateUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body domain.AccountCreation
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Email != "user@example.com" || body.Role != "role-1" || body.Status != "active" {
			t.Fatalf("unexpected payload: %+v", body)
		}
		fmt.Fprint(w, `{"data":{"id":"acc-2","email":"user@example.com","status":"active"}}`)
	}))
	defer srv.Close()

	account, err := testFactory(srv).Client("admin-token").CreateUser(context.Background(), domain.AccountCreation{
		FirstName: "New", LastName: "User", Email: "user@example.com", Password: "pw", Role: "role-1", Status: "active",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if account.ID != "acc-2" {
		t.Fatalf("unexpected account: %+v", account)
	}
}

func TestMeAndUpdateMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer user-token" {
			t.Fatalf("unexpected authorization: %q", got)
		}
		switch r.Method {
		case http.MethodGet:
			fmt.Fprint(w, `{"data":{"id":"acc-1","email":"user@example.com","status":"active"}}`)
		case http.MethodPatch:
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["first_name"] != "Updated" {
				t.Fatalf("unexpected patch: %+v", body)
			}
			fmt.Fprint(w, `{"data":{"id":"acc-1","first_name":"Updated","email":"user@example.com","status":"active"}}`)
		default:
			t.Fatalf("unexpected method: %s", r.Method)
		}
	}))
	defer srv.Close()

	client := testFactory(srv).Client("user-token")
	account, err := client.Me(context.Background())
	if err != nil || account.ID != "acc-1" {
		t.Fatalf("me: %v %+v", err, account)
	}
	updated, err := client.UpdateMe(context.Background(), map[string]any{"first_name": "Updated"})
	if err != nil || updated.FirstName != "Updated" {
		t.Fatalf("update me: %v %+v", err, updated)
	}
}

func TestCreateAndFetchThread(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/items/threads":
			var body domain.ThreadCreation
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Title != "hello" || body.Type != "public" || body.Image != "file-1" {
				t.Fatalf("unexpected payload: %+v", body)
			}
			fmt.Fprint(w, `{"data":{"id":"thread-1","title":"hello","type":"public","image":"file-1"}}`)
		case r.Method == http.MethodGet && r.URL.Path == "/items/threads/thread-1":
			fmt.Fprint(w, `{"data":{"id":"thread-1","title":"hello","type":"public"}}`)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	client := testFactory(srv).Client("user-token")
	thread, err := client.CreateThread(context.Background(), domain.ThreadCreation{Title: "hello", Type: "public", Image: "file-1"})
	if err != nil || thread.ID != "thread-1" {
		t.Fatalf("create thread: %v %+v", err, thread)
	}
	fetched, err := client.Thread(context.Background(), "thread-1")
	if err != nil || fetched.Title != "hello" {
		t.Fatalf("fetch thread: %v %+v", err, fetched)
	}
}

func TestUploadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/files" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "photo.jpg" {
			t.Fatalf("unexpected filename: %s", header.Filename)
		}
		fmt.Fprint(w, `{"data":{"id":"file-1","title":"photo"}}`)
	}))
	defer srv.Close()

	uploaded, err := testFactory(srv).Client("user-token").UploadFile(context.Background(), "photo.jpg", strings.NewReader("jpeg-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if uploaded.ID != "file-1" {
		t.Fatalf("unexpected file: %+v", uploaded)
	}
}
