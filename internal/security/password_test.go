package security

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("kopi123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if strings.Contains(string(hash), "kopi123") {
		t.Fatal("hash must not contain the plaintext")
	}

	ok, err := VerifyPassword("kopi123", hash)
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}
	if !ok {
		t.Fatal("expected correct password to verify")
	}

	ok, err = VerifyPassword("wrong", hash)
	if err != nil {
		t.Fatalf("VerifyPassword error: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password to fail")
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("same")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if string(h1) == string(h2) {
		t.Fatal("expected different salts to produce different digests")
	}
}

func TestHashPassword_EncodedFormatParses(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("kopi123")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	// The encoded form is $argon2id$v=19$params$salt$hash; verification must
	// split it back into exactly those fields.
	fields := strings.Split(string(hash), "$")
	if len(fields) != 6 {
		t.Fatalf("expected 6 $-separated fields, got %d (%s)", len(fields), hash)
	}
	if fields[1] != "argon2id" || fields[2] != "v=19" {
		t.Fatalf("unexpected prefix fields: %q %q", fields[1], fields[2])
	}

	ok, err := VerifyPassword("kopi123", hash)
	if err != nil {
		t.Fatalf("VerifyPassword must parse its own encoding: %v", err)
	}
	if !ok {
		t.Fatal("expected round-trip verification to succeed")
	}
}

func TestVerifyPassword_BadEncoding(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{
		"not-a-hash",
		"$argon2id$v=19$t=3,m=65536,p=2$onlyonetrailingfield",
		"$scrypt$v=19$t=3,m=65536,p=2$c2FsdA$aGFzaA",
	} {
		if _, err := VerifyPassword("x", []byte(bad)); err == nil {
			t.Fatalf("expected error for malformed encoded hash %q", bad)
		}
	}
}
