package instagram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// graphFixture routes the Graph API paths one AccountData call walks through.
func graphFixture(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("access_token"); got != "ig-token" {
			t.Errorf("access_token = %q, want ig-token", got)
		}

		switch r.URL.Path {
		case "/v18.0/me/accounts":
			fmt.Fprint(w, `{"data":[{"id":"page-1"}]}`)
		case "/v18.0/page-1":
			fmt.Fprint(w, `{"instagram_business_account":{"id":"ig-99"}}`)
		case "/v18.0/ig-99":
			fmt.Fprint(w, `{"id":"ig-99","username":"creator","followers_count":1200}`)
		case "/v18.0/ig-99/media":
			fmt.Fprint(w, `{"data":[{"id":"m1","media_type":"IMAGE","timestamp":"2024-03-15T10:30:00+0000","like_count":50,"comments_count":5}]}`)
		case "/v18.0/ig-99/insights":
			fmt.Fprint(w, `{"data":[{"name":"reach","values":[{"value":3000},{"value":4000}]},{"name":"impressions","values":[{"value":9000}]}]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}
}

func TestAccountData(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(graphFixture(t))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), testLogger())

	data, err := client.AccountData(context.Background(), "ig-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if data.Account.Username != "creator" || data.Account.FollowersCount != 1200 {
		t.Errorf("account = %+v", data.Account)
	}
	if len(data.Media) != 1 || data.Media[0].LikeCount != 50 {
		t.Errorf("media = %+v", data.Media)
	}
	// The latest value of each metric series wins.
	if data.Insights.Reach != 4000 {
		t.Errorf("Reach = %d, want 4000", data.Insights.Reach)
	}
	if data.Insights.Impressions != 9000 {
		t.Errorf("Impressions = %d, want 9000", data.Insights.Impressions)
	}
}

func TestAccountData_NoPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), testLogger())

	_, err := client.AccountData(context.Background(), "ig-token")
	if !errors.Is(err, ErrNoPage) {
		t.Fatalf("err = %v, want ErrNoPage", err)
	}
}

func TestAccountData_NoBusinessAccount(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v18.0/me/accounts":
			fmt.Fprint(w, `{"data":[{"id":"page-1"}]}`)
		default:
			fmt.Fprint(w, `{}`)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), testLogger())

	_, err := client.AccountData(context.Background(), "ig-token")
	if !errors.Is(err, ErrNoBusinessAccount) {
		t.Fatalf("err = %v, want ErrNoBusinessAccount", err)
	}
}

func TestAccountData_GraphError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"Invalid OAuth access token","type":"OAuthException","code":190}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), testLogger())

	_, err := client.AccountData(context.Background(), "expired")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "Invalid OAuth access token") {
		t.Errorf("error should carry the Graph message: %v", err)
	}
	if !strings.Contains(err.Error(), "code 190") {
		t.Errorf("error should carry the Graph code: %v", err)
	}
}
