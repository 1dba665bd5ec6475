package dt0

import (
	"errors"
	"strings"
	"testing"
)

func TestHashed(t *testing.T) {
	c, err := Hashed(HashSHA256)
	if err != nil {
		t.Fatalf("Hashed() error: %v", err)
	}

	got, err := c.Cast(Read, "hello")
	if err != nil {
		t.Fatalf("Cast(Read) error: %v", err)
	}
	if got != "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824" {
		t.Errorf("Cast(Read) = %v, want sha256 hex", got)
	}

	// Write and non-strings pass through
	if got, _ := c.Cast(Write, "hello"); got != "hello" {
		t.Errorf("Cast(Write) = %v, want passthrough", got)
	}
	if got, _ := c.Cast(Read, 42); got != 42 {
		t.Errorf("Cast(Read, 42) = %v, want passthrough", got)
	}
	if got, _ := c.Cast(Read, nil); got != nil {
		t.Errorf("Cast(Read, nil) = %v, want nil", got)
	}
}

func TestHashed_StoredHashReloads(t *testing.T) {
	for _, algo := range []HashAlgo{HashSHA256, HashSHA512, HashArgon2, HashBcrypt} {
		t.Run(string(algo), func(t *testing.T) {
			c, err := Hashed(algo)
			if err != nil {
				t.Fatalf("Hashed(%s) error: %v", algo, err)
			}
			stored, err := c.Cast(Read, "secret")
			if err != nil {
				t.Fatalf("Cast(Read) error: %v", err)
			}
			if stored == "secret" {
				t.Fatalf("Cast(Read) = plaintext, want hash")
			}
			written, _ := c.Cast(Write, stored)
			reloaded, err := c.Cast(Read, written)
			if err != nil {
				t.Fatalf("Cast(Read, stored) error: %v", err)
			}
			if reloaded != stored {
				t.Errorf("reload = %v, want stored hash %v", reloaded, stored)
			}
		})
	}
}

func TestHashedWith_HashesEveryRead(t *testing.T) {
	c := HashedWith(HasherFunc(sha256Hex))
	once, _ := c.Cast(Read, "hello")
	twice, _ := c.Cast(Read, once)
	if once == twice {
		t.Errorf("HashedWith reload = %v, want rehash", twice)
	}
}

func TestHashed_Unknown(t *testing.T) {
	_, err := Hashed("md5")
	if !errors.Is(err, ErrConfig) {
		t.Errorf("Hashed(md5) error = %v, want ErrConfig", err)
	}
}

func TestHashedWith_Argon2(t *testing.T) {
	c := HashedWith(Argon2(DefaultArgon2Params()))
	got, err := c.Cast(Read, "password")
	if err != nil {
		t.Fatalf("Cast(Read) error: %v", err)
	}
	if s, _ := got.(string); !strings.HasPrefix(s, "$argon2id$") {
		t.Errorf("Cast(Read) = %v, want argon2id hash", got)
	}
}

func TestMasked(t *testing.T) {
	c, err := Masked(MaskEmail)
	if err != nil {
		t.Fatalf("Masked() error: %v", err)
	}

	if got, _ := c.Cast(Write, "alice@example.com"); got != "a***@example.com" {
		t.Errorf("Cast(Write) = %v, want %q", got, "a***@example.com")
	}
	if got, _ := c.Cast(Read, "alice@example.com"); got != "alice@example.com" {
		t.Errorf("Cast(Read) = %v, want passthrough", got)
	}
}

func TestMasked_Unknown(t *testing.T) {
	_, err := Masked("zip")
	if !errors.Is(err, ErrConfig) {
		t.Errorf("Masked(zip) error = %v, want ErrConfig", err)
	}
}

func TestRedacted(t *testing.T) {
	c := Redacted("[REDACTED]")

	if got, _ := c.Cast(Write, "internal note"); got != "[REDACTED]" {
		t.Errorf("Cast(Write) = %v, want [REDACTED]", got)
	}
	if got, _ := c.Cast(Write, nil); got != nil {
		t.Errorf("Cast(Write, nil) = %v, want nil", got)
	}
	if got, _ := c.Cast(Read, "internal note"); got != "internal note" {
		t.Errorf("Cast(Read) = %v, want passthrough", got)
	}
}
