package dt0

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Hashed returns a caster that hashes string values on Read and passes
// everything through on Write. Use it for passwords and fingerprints.
// Strings already in algo's encoded form are kept as they are, so a stored
// hash reloads unchanged. For sha256 and sha512 that form is lowercase hex
// of the digest length.
func Hashed(algo HashAlgo) (Caster, error) {
	h, ok := builtinHashers()[algo]
	if !ok {
		return nil, newConfigError(ErrConfig, string(algo), "", nil)
	}
	return hashCaster(h, func(s string) bool { return isHashed(algo, s) }), nil
}

// HashedWith returns a hashing caster backed by h. It hashes every string
// it reads, so it suits input-only fields.
func HashedWith(h Hasher) Caster {
	return hashCaster(h, func(string) bool { return false })
}

func hashCaster(h Hasher, hashed func(string) bool) Caster {
	return CasterFunc(func(dir Direction, v any) (any, error) {
		s, ok := v.(string)
		if dir != Read || !ok || hashed(s) {
			return v, nil
		}
		return h.Hash([]byte(s))
	})
}

// isHashed reports whether s is already an encoded hash produced by algo.
func isHashed(algo HashAlgo, s string) bool {
	switch algo {
	case HashArgon2:
		return strings.HasPrefix(s, "$argon2id$")
	case HashBcrypt:
		_, err := bcrypt.Cost([]byte(s))
		return err == nil
	case HashSHA256:
		return isLowerHex(s, 64)
	case HashSHA512:
		return isLowerHex(s, 128)
	default:
		return false
	}
}

func isLowerHex(s string, n int) bool {
	if len(s) != n || strings.ToLower(s) != s {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// Masked returns a caster that masks string values on Write and passes
// everything through on Read.
func Masked(mt MaskType) (Caster, error) {
	m, ok := builtinMaskers()[mt]
	if !ok {
		return nil, newConfigError(ErrConfig, string(mt), "", nil)
	}
	return MaskedWith(m), nil
}

// MaskedWith returns a masking caster backed by m.
func MaskedWith(m Masker) Caster {
	return CasterFunc(func(dir Direction, v any) (any, error) {
		s, ok := v.(string)
		if dir != Write || !ok {
			return v, nil
		}
		return m.Mask(s), nil
	})
}

// Redacted returns a caster that replaces non-nil values with replacement on Write.
func Redacted(replacement string) Caster {
	return CasterFunc(func(dir Direction, v any) (any, error) {
		if dir != Write || v == nil {
			return v, nil
		}
		return replacement, nil
	})
}
