package dt0

import "strings"

// Cipher names a symmetric cipher supported by Encrypter.
type Cipher string

const (
	// CipherAES128CBC uses AES-128 in CBC mode with an HMAC-SHA256 mac.
	CipherAES128CBC Cipher = "AES-128-CBC"

	// CipherAES256CBC uses AES-256 in CBC mode with an HMAC-SHA256 mac.
	CipherAES256CBC Cipher = "AES-256-CBC"

	// CipherAES128GCM uses AES-128 in GCM mode; the payload carries an auth tag instead of a mac.
	CipherAES128GCM Cipher = "AES-128-GCM"

	// CipherAES256GCM uses AES-256 in GCM mode; the payload carries an auth tag instead of a mac.
	CipherAES256GCM Cipher = "AES-256-GCM"
)

// DefaultCipher is used when neither an explicit nor a configured cipher is available.
const DefaultCipher = CipherAES256CBC

// HashAlgo represents a supported hashing algorithm.
type HashAlgo string

const (
	// HashArgon2 uses Argon2id for password hashing (salted, slow).
	HashArgon2 HashAlgo = "argon2"

	// HashBcrypt uses bcrypt for password hashing (salted, slow).
	HashBcrypt HashAlgo = "bcrypt"

	// HashSHA256 uses SHA-256 for deterministic hashing (fast, no salt).
	// Use for fingerprinting/identification, NOT for passwords.
	HashSHA256 HashAlgo = "sha256"

	// HashSHA512 uses SHA-512 for deterministic hashing (fast, no salt).
	// Use for fingerprinting/identification, NOT for passwords.
	HashSHA512 HashAlgo = "sha512"
)

// cipherKeySizes maps each cipher to its required key length.
var cipherKeySizes = map[Cipher]int{
	CipherAES128CBC: 16,
	CipherAES256CBC: 32,
	CipherAES128GCM: 16,
	CipherAES256GCM: 32,
}

// ParseCipher normalizes a cipher name, case-insensitively.
func ParseCipher(name string) (Cipher, bool) {
	c := Cipher(strings.ToUpper(strings.TrimSpace(name)))
	_, ok := cipherKeySizes[c]
	return c, ok
}

// KeySize returns the key length c requires, or 0 for unknown ciphers.
func (c Cipher) KeySize() int {
	return cipherKeySizes[c]
}

// IsAEAD reports whether c authenticates with a tag rather than a mac.
func (c Cipher) IsAEAD() bool {
	return c == CipherAES128GCM || c == CipherAES256GCM
}

// IsValidHashAlgo returns true if the algorithm is a known hash algorithm.
func IsValidHashAlgo(algo HashAlgo) bool {
	_, ok := builtinHashers()[algo]
	return ok
}

// IsValidMaskType returns true if the type is a known mask type.
func IsValidMaskType(mt MaskType) bool {
	_, ok := builtinMaskers()[mt]
	return ok
}
