package dt0

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Hasher performs one-way hashing.
type Hasher interface {
	// Hash returns the hash of plaintext as a string.
	// For password hashers (argon2, bcrypt), the result includes salt and parameters.
	// For deterministic hashers (sha256, sha512), the result is a hex-encoded hash.
	Hash(plaintext []byte) (string, error)
}

// Argon2Params configures Argon2id hashing.
type Argon2Params struct {
	Time    uint32 // Number of iterations
	Memory  uint32 // Memory usage in KiB
	Threads uint8  // Parallelism factor
	KeyLen  uint32 // Output key length
	SaltLen uint32 // Salt length
}

// DefaultArgon2Params returns recommended Argon2id parameters.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:    1,
		Memory:  64 * 1024,
		Threads: 4,
		KeyLen:  32,
		SaltLen: 16,
	}
}

type argon2Hasher struct {
	params Argon2Params
}

// Argon2 returns an Argon2id hasher with the given parameters.
// Encoded output: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
func Argon2(params Argon2Params) Hasher {
	return &argon2Hasher{params: params}
}

func (h *argon2Hasher) Hash(plaintext []byte) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	sum := argon2.IDKey(plaintext, salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

type bcryptHasher struct {
	cost int
}

// Bcrypt returns a bcrypt hasher. A cost of 0 uses bcrypt.DefaultCost.
func Bcrypt(cost int) Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(plaintext []byte) (string, error) {
	sum, err := bcrypt.GenerateFromPassword(plaintext, h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(sum), nil
}

// HasherFunc adapts a function to the Hasher interface.
type HasherFunc func(plaintext []byte) (string, error)

// Hash calls f(plaintext).
func (f HasherFunc) Hash(plaintext []byte) (string, error) { return f(plaintext) }

func sha256Hex(p []byte) (string, error) {
	sum := sha256.Sum256(p)
	return hex.EncodeToString(sum[:]), nil
}

func sha512Hex(p []byte) (string, error) {
	sum := sha512.Sum512(p)
	return hex.EncodeToString(sum[:]), nil
}

// builtinHashers returns the default hasher registry.
func builtinHashers() map[HashAlgo]Hasher {
	return map[HashAlgo]Hasher{
		HashArgon2: Argon2(DefaultArgon2Params()),
		HashBcrypt: Bcrypt(0),
		HashSHA256: HasherFunc(sha256Hex),
		HashSHA512: HasherFunc(sha512Hex),
	}
}
