package security

import (
	"strings"
	"testing"
)

func TestVerifyPlaintext(t *testing.T) {
	if !Verify("admin123", "admin123") {
		t.Fatal("expected matching plaintext to verify")
	}
	if Verify("admin123", "admin124") {
		t.Fatal("expected mismatched plaintext to fail")
	}
	if Verify("", "admin123") {
		t.Fatal("expected empty stored value to fail")
	}
}

func TestVerifyArgonRoundTrip(t *testing.T) {
	hash, err := HashPassword("func123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("expected argon2id prefix, got %q", hash)
	}
	if !Verify(hash, "func123") {
		t.Fatal("expected hashed password to verify")
	}
	if Verify(hash, "func124") {
		t.Fatal("expected wrong password to fail against hash")
	}
}

func TestVerifyMalformedHashFails(t *testing.T) {
	if Verify("$argon2id$v=19$broken", "anything") {
		t.Fatal("expected malformed hash to fail verification")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected empty password to be rejected")
	}
}
