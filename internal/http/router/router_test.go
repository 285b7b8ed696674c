package router

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cachemem "github.com/dropDatabas3/moim/internal/cache/memory"
	authctrl "github.com/dropDatabas3/moim/internal/http/controllers/auth"
	socialctrl "github.com/dropDatabas3/moim/internal/http/controllers/social"
	"github.com/dropDatabas3/moim/internal/http/middlewares"
	authsvc "github.com/dropDatabas3/moim/internal/http/services/auth"
	socialsvc "github.com/dropDatabas3/moim/internal/http/services/social"
	jwtx "github.com/dropDatabas3/moim/internal/jwt"
	"github.com/dropDatabas3/moim/internal/namegen"
	"github.com/dropDatabas3/moim/internal/oauth"
	"github.com/dropDatabas3/moim/internal/oauth/kakao"
	"github.com/dropDatabas3/moim/internal/security/password"
	"github.com/dropDatabas3/moim/internal/store/memory"
)

// newTestServer wires the full stack on the memory store, with the kakao
// gateway pointed at local fakes for its token and userinfo endpoints.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fake-at"}`))
	}))
	t.Cleanup(tokenSrv.Close)

	userSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":12345,"properties":{"nickname":"Kim"},"kakao_account":{"email":"a@b.com"}}`))
	}))
	t.Cleanup(userSrv.Close)

	k := kakao.New("cid", "sec", "https://app.test/cb")
	k.TokenEndpoint = tokenSrv.URL
	k.UserInfoEndpoint = userSrv.URL
	providers := map[string]oauth.Provider{"kakao": k}

	seed := base64.StdEncoding.EncodeToString(make([]byte, 32))
	issuer, err := jwtx.NewIssuer("https://accounts.test", seed, time.Hour)
	require.NoError(t, err)

	store := memory.New()
	hasher := password.New(password.Params{Memory: 1024, Time: 1, Parallelism: 1, KeyLen: 32})
	names := namegen.New(rand.New(rand.NewSource(42)))

	handler := New(Deps{
		Auth: authctrl.NewController(authsvc.NewService(authsvc.Deps{
			Users:    store,
			Buckets:  store.Buckets(),
			Messages: store.Messages(),
			Hasher:   hasher,
			Issuer:   issuer,
		})),
		Social: socialctrl.NewController(
			socialsvc.NewLoginService(socialsvc.LoginDeps{
				Providers: providers,
				Users:     store,
				Hasher:    hasher,
				Issuer:    issuer,
				Names:     names,
			}),
			socialsvc.NewStartService(socialsvc.StartDeps{
				Providers: providers,
				States:    cachemem.New(time.Minute),
				StateTTL:  time.Minute,
			}),
		),
		RequireAuth: middlewares.RequireAuth(issuer),
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any, token string) (*http.Response, []byte) {
	t.Helper()
	return doJSON(t, http.MethodPost, url, body, token)
}

func doJSON(t *testing.T, method, url string, body any, token string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func TestAPI_RegisterLoginMe(t *testing.T) {
	srv := newTestServer(t)

	resp, body := postJSON(t, srv.URL+"/v1/auth/register", map[string]string{
		"handle":       "kim",
		"password":     "hunter2",
		"display_name": "Kim",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = postJSON(t, srv.URL+"/v1/auth/login", map[string]string{
		"handle":   "kim",
		"password": "hunter2",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var login struct {
		AccessToken string `json:"access_token"`
		User        struct {
			StableID string `json:"stable_id"`
			Handle   string `json:"handle"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &login))
	require.NotEmpty(t, login.AccessToken)
	require.Equal(t, "kim", login.User.Handle)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/v1/users/me", nil, login.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var me struct {
		StableID string `json:"stable_id"`
	}
	require.NoError(t, json.Unmarshal(body, &me))
	require.Equal(t, login.User.StableID, me.StableID)
}

func TestAPI_WrongPassword(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/v1/auth/register", map[string]string{
		"handle": "kim", "password": "right",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := postJSON(t, srv.URL+"/v1/auth/login", map[string]string{
		"handle": "kim", "password": "wrong",
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, string(body), "credential_mismatch")
}

func TestAPI_DuplicateHandleConflict(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/v1/auth/register", map[string]string{
		"handle": "kim", "password": "a",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := postJSON(t, srv.URL+"/v1/auth/register", map[string]string{
		"handle": "kim", "password": "b",
	}, "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Contains(t, string(body), "duplicate_handle")
}

func TestAPI_MeRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/v1/users/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_SocialStartAndCallback(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/v1/auth/kakao/start", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var start struct {
		RedirectURL string `json:"redirect_url"`
		State       string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(body, &start))
	require.NotEmpty(t, start.State)
	require.Contains(t, start.RedirectURL, "state="+start.State)

	resp, body = postJSON(t, srv.URL+"/v1/auth/kakao/callback", map[string]string{
		"code":  "auth-code",
		"state": start.State,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var login struct {
		AccessToken string `json:"access_token"`
		User        struct {
			StableID string `json:"stable_id"`
			Handle   string `json:"handle"`
			Email    string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &login))
	require.NotEmpty(t, login.AccessToken)
	require.Equal(t, "kakao:12345", login.User.StableID)
	require.Equal(t, "a@b.com", login.User.Email)
	require.NotEmpty(t, login.User.Handle)

	// Reusing the state must fail.
	resp, body = postJSON(t, srv.URL+"/v1/auth/kakao/callback", map[string]string{
		"code":  "auth-code",
		"state": start.State,
	}, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
	require.Contains(t, string(body), "invalid_state")
}

func TestAPI_SocialUnknownProvider(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/v1/auth/naver/start", nil, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_UpdateAndDeleteAccount(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/v1/auth/register", map[string]string{
		"handle": "kim", "password": "s",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, body := postJSON(t, srv.URL+"/v1/auth/login", map[string]string{
		"handle": "kim", "password": "s",
	}, "")
	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(body, &login))

	resp, body = doJSON(t, http.MethodPatch, srv.URL+"/v1/users/me", map[string]string{
		"display_name": "Kim Lee",
	}, login.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.Contains(t, string(body), "Kim Lee")

	resp, body = doJSON(t, http.MethodPut, srv.URL+"/v1/users/me/handle", map[string]string{
		"handle": "kim2",
	}, login.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.Contains(t, string(body), "kim2")

	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/v1/users/me", nil, login.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	// The account is gone: the old token authenticates but the record is not
	// found anymore.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/v1/users/me", nil, login.AccessToken)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_HandleAvailability(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/v1/handles/kim/availability", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `"available":true`)

	resp, _ = postJSON(t, srv.URL+"/v1/auth/register", map[string]string{
		"handle": "kim", "password": "s",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/v1/handles/kim/availability", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `"available":false`)
}
