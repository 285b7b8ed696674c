package password

import (
	"strings"
	"testing"
)

func TestHashVerify_RoundTrip(t *testing.T) {
	h := New(Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32})

	phc, err := h.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(phc, "$argon2id$v=19$") {
		t.Fatalf("unexpected PHC prefix: %q", phc)
	}
	if !h.Verify("correct horse battery staple", phc) {
		t.Fatal("expected verify to succeed")
	}
	if h.Verify("wrong password", phc) {
		t.Fatal("expected verify to fail for wrong password")
	}
}

func TestHash_EmptyPassword(t *testing.T) {
	h := New(Default)
	if _, err := h.Hash(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestHash_SaltedPerCall(t *testing.T) {
	h := New(Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32})
	a, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same secret must differ (random salt)")
	}
	if !h.Verify("secret", a) || !h.Verify("secret", b) {
		t.Fatal("both hashes must verify")
	}
}

func TestVerify_Garbage(t *testing.T) {
	h := New(Default)
	garbage := []string{
		"",
		"not a phc string",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$ZGs",
		"$bcrypt$whatever",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$ZGs",
	}
	for _, g := range garbage {
		if h.Verify("secret", g) {
			t.Fatalf("expected verify to fail for %q", g)
		}
	}
}
