package security_test

import (
	"strings"
	"testing"

	"github.com/tidyops/cleanhub/internal/security"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("demo123")
	if err != nil {
		t.Fatal(err)
	}

	if hash == "demo123" {
		t.Fatal("hash equals plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("not a bcrypt hash: %q", hash)
	}

	if err := security.CheckPassword(hash, "demo123"); err != nil {
		t.Fatalf("correct password rejected: %v", err)
	}
	if err := security.CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("wrong password accepted")
	}
}

func TestBcryptSatisfiesHasher(t *testing.T) {
	var h security.Hasher = security.Bcrypt{}

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Check(hash, "secret1"); err != nil {
		t.Fatal(err)
	}
}
