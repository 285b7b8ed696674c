package google

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dropDatabas3/moim/internal/oauth"
)

func TestExchangeCode_FormFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("grant_type") != "authorization_code" {
			t.Errorf("grant_type = %q", r.PostForm.Get("grant_type"))
		}
		if r.PostForm.Get("code") != "g-code" {
			t.Errorf("code = %q", r.PostForm.Get("code"))
		}
		_, _ = w.Write([]byte(`{"access_token":"g-at","id_token":"x","expires_in":3599}`))
	}))
	defer srv.Close()

	g := New("cid", "sec", "https://app.test/cb")
	g.TokenEndpoint = srv.URL

	at, err := g.ExchangeCode(context.Background(), "g-code")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if at != "g-at" {
		t.Fatalf("access token = %q", at)
	}
}

func TestExchangeCode_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	g := New("cid", "sec", "cb")
	g.TokenEndpoint = srv.URL

	if _, err := g.ExchangeCode(context.Background(), "bad"); !errors.Is(err, oauth.ErrUpstreamRejected) {
		t.Fatalf("err = %v, want ErrUpstreamRejected", err)
	}
}

func TestFetchClaims(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		want    oauth.Claims
	}{
		{
			name: "complete profile",
			body: `{"sub":"108","name":"Alex Kim","email":"alex@example.com","picture":"p"}`,
			want: oauth.Claims{Subject: "108", DisplayName: "Alex Kim", Email: "alex@example.com"},
		},
		{
			name: "name optional",
			body: `{"sub":"108","email":"alex@example.com"}`,
			want: oauth.Claims{Subject: "108", Email: "alex@example.com"},
		},
		{
			name:    "missing sub",
			body:    `{"name":"Alex","email":"alex@example.com"}`,
			wantErr: oauth.ErrSubjectMissing,
		},
		{
			name:    "missing email",
			body:    `{"sub":"108","name":"Alex"}`,
			wantErr: oauth.ErrEmailMissing,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := New("cid", "sec", "cb")
			g.UserInfoEndpoint = srv.URL

			claims, err := g.FetchClaims(context.Background(), "at")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("fetch claims: %v", err)
			}
			if *claims != tt.want {
				t.Fatalf("claims = %+v, want %+v", *claims, tt.want)
			}
		})
	}
}

func TestFetchClaims_UserInfoRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	g := New("cid", "sec", "cb")
	g.UserInfoEndpoint = srv.URL

	if _, err := g.FetchClaims(context.Background(), "expired"); !errors.Is(err, oauth.ErrUpstreamRejected) {
		t.Fatalf("err = %v, want ErrUpstreamRejected", err)
	}
}
