package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
app:
  env: dev
server:
  addr: ":9090"
storage:
  driver: memory
jwt:
  issuer: https://accounts.test
  access_ttl: 1h
  ed25519_seed: AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=
oauth:
  state_ttl: 2m
  kakao:
    enabled: true
    client_id: kakao-cid
    client_secret: kakao-sec
    redirect_uri: https://app.test/auth/kakao/callback
  google:
    enabled: false
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return p
}

func TestLoad_YAML(t *testing.T) {
	c, err := Load(writeTemp(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Addr != ":9090" {
		t.Fatalf("addr = %q", c.Server.Addr)
	}
	if !c.OAuth.Kakao.Enabled || c.OAuth.Kakao.ClientID != "kakao-cid" {
		t.Fatalf("kakao block: %+v", c.OAuth.Kakao)
	}
	if c.OAuth.Google.Enabled {
		t.Fatal("google should be disabled")
	}
	if c.AccessTTL().Hours() != 1 {
		t.Fatalf("access ttl = %v", c.AccessTTL())
	}
	if c.StateTTL().Minutes() != 2 {
		t.Fatalf("state ttl = %v", c.StateTTL())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("OAUTH_KAKAO_CLIENT_SECRET", "from-env")

	c, err := Load(writeTemp(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Addr != ":7070" {
		t.Fatalf("addr = %q, want env override", c.Server.Addr)
	}
	if c.OAuth.Kakao.ClientSecret != "from-env" {
		t.Fatalf("kakao secret = %q", c.OAuth.Kakao.ClientSecret)
	}
}

func TestLoad_RequiresSeed(t *testing.T) {
	if _, err := Load(writeTemp(t, "app:\n  env: dev\n")); err == nil {
		t.Fatal("expected error for missing jwt.ed25519_seed")
	}
}

func TestLoad_BadDuration(t *testing.T) {
	bad := sampleYAML + "\n"
	c := writeTemp(t, bad)
	t.Setenv("JWT_ACCESS_TTL", "not-a-duration")
	if _, err := Load(c); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	if _, err := Load(writeTemp(t, sampleYAML)); err == nil {
		t.Fatal("expected error for postgres without dsn")
	}
}
