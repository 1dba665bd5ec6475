package dt0

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
)

// Encrypter is a keyed symmetric transform producing self-describing payloads:
//
//	base64(json{"iv": ..., "value": ..., "mac": ..., "tag": ...})
//
// CBC ciphers authenticate with an HMAC-SHA256 mac over iv and value.
// GCM ciphers carry an auth tag and an empty mac.
//
// An Encrypter is immutable and safe for concurrent use.
type Encrypter struct {
	key    []byte
	cipher Cipher
	block  cipher.Block
}

// payload is the wire format of an encrypted value.
type payload struct {
	IV    string `json:"iv"`
	Value string `json:"value"`
	MAC   string `json:"mac"`
	Tag   string `json:"tag"`
}

// NewEncrypter returns an Encrypter for key and c.
// The key length must match the cipher (16 bytes for AES-128, 32 for AES-256).
func NewEncrypter(key []byte, c Cipher) (*Encrypter, error) {
	size := c.KeySize()
	if size == 0 {
		return nil, newConfigError(ErrConfig, string(c), "", fmt.Errorf("unsupported cipher"))
	}
	if len(key) != size {
		return nil, newConfigError(ErrInvalidKey, string(c), "",
			fmt.Errorf("must be %d bytes, got %d", size, len(key)))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, newConfigError(ErrInvalidKey, string(c), "", err)
	}

	k := make([]byte, len(key))
	copy(k, key)
	return &Encrypter{key: k, cipher: c, block: block}, nil
}

// GenerateKey returns a random key sized for c.
func GenerateKey(c Cipher) ([]byte, error) {
	size := c.KeySize()
	if size == 0 {
		return nil, newConfigError(ErrConfig, string(c), "", fmt.Errorf("unsupported cipher"))
	}
	key := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Cipher returns the cipher this Encrypter uses.
func (e *Encrypter) Cipher() Cipher { return e.cipher }

// EncryptString encrypts s as a raw string payload.
func (e *Encrypter) EncryptString(s string) (string, error) {
	return e.seal([]byte(s))
}

// DecryptString decrypts a payload produced by EncryptString.
func (e *Encrypter) DecryptString(p string) (string, error) {
	plain, err := e.open(p)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// Encrypt serializes v with codec and encrypts the result.
func (e *Encrypter) Encrypt(v any, codec Codec) (string, error) {
	data, err := codec.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMarshal, err)
	}
	return e.seal(data)
}

// Decrypt decrypts a payload produced by Encrypt and deserializes it with codec.
func (e *Encrypter) Decrypt(p string, codec Codec) (any, error) {
	plain, err := e.open(p)
	if err != nil {
		return nil, err
	}
	var v any
	if err := codec.Unmarshal(plain, &v); err != nil {
		return nil, &DecryptError{Reason: "payload is not " + codec.ContentType(), Cause: err}
	}
	return v, nil
}

// IsEncrypted reports whether s looks like an encrypted payload: base64
// encoded JSON carrying iv, value and mac entries.
func IsEncrypted(s string) bool {
	_, ok := decodePayload(s)
	return ok
}

func decodePayload(s string) (payload, bool) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return payload{}, false
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return payload{}, false
	}
	var p payload
	for name, dst := range map[string]*string{"iv": &p.IV, "value": &p.Value, "mac": &p.MAC} {
		v, ok := fields[name].(string)
		if !ok {
			return payload{}, false
		}
		*dst = v
	}
	p.Tag, _ = fields["tag"].(string)
	return p, true
}

func (e *Encrypter) seal(plain []byte) (string, error) {
	var p payload
	if e.cipher.IsAEAD() {
		gcm, err := cipher.NewGCM(e.block)
		if err != nil {
			return "", err
		}
		nonce := make([]byte, gcm.NonceSize())
		if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
			return "", err
		}
		sealed := gcm.Seal(nil, nonce, plain, nil)
		split := len(sealed) - gcm.Overhead()
		p.IV = base64.StdEncoding.EncodeToString(nonce)
		p.Value = base64.StdEncoding.EncodeToString(sealed[:split])
		p.Tag = base64.StdEncoding.EncodeToString(sealed[split:])
	} else {
		iv := make([]byte, aes.BlockSize)
		if _, err := io.ReadFull(rand.Reader, iv); err != nil {
			return "", err
		}
		padded := pkcs7Pad(plain, aes.BlockSize)
		out := make([]byte, len(padded))
		cipher.NewCBCEncrypter(e.block, iv).CryptBlocks(out, padded)
		p.IV = base64.StdEncoding.EncodeToString(iv)
		p.Value = base64.StdEncoding.EncodeToString(out)
		p.MAC = e.mac(p.IV, p.Value)
	}

	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMarshal, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

func (e *Encrypter) open(s string) ([]byte, error) {
	p, ok := decodePayload(s)
	if !ok {
		return nil, &DecryptError{Reason: "invalid payload"}
	}
	iv, err := base64.StdEncoding.DecodeString(p.IV)
	if err != nil {
		return nil, &DecryptError{Reason: "invalid iv", Cause: err}
	}
	value, err := base64.StdEncoding.DecodeString(p.Value)
	if err != nil {
		return nil, &DecryptError{Reason: "invalid value", Cause: err}
	}

	if e.cipher.IsAEAD() {
		gcm, err := cipher.NewGCM(e.block)
		if err != nil {
			return nil, &DecryptError{Reason: "cipher", Cause: err}
		}
		tag, err := base64.StdEncoding.DecodeString(p.Tag)
		if err != nil || len(tag) != gcm.Overhead() {
			return nil, &DecryptError{Reason: "invalid tag", Cause: err}
		}
		if len(iv) != gcm.NonceSize() {
			return nil, &DecryptError{Reason: "invalid iv length"}
		}
		plain, err := gcm.Open(nil, iv, append(value, tag...), nil)
		if err != nil {
			return nil, &DecryptError{Reason: "could not decrypt", Cause: err}
		}
		return plain, nil
	}

	want := e.mac(p.IV, p.Value)
	if !hmac.Equal([]byte(want), []byte(p.MAC)) {
		return nil, &DecryptError{Reason: "mac is invalid"}
	}
	if len(iv) != aes.BlockSize || len(value) == 0 || len(value)%aes.BlockSize != 0 {
		return nil, &DecryptError{Reason: "invalid block layout"}
	}
	out := make([]byte, len(value))
	cipher.NewCBCDecrypter(e.block, iv).CryptBlocks(out, value)
	plain, ok := pkcs7Unpad(out, aes.BlockSize)
	if !ok {
		return nil, &DecryptError{Reason: "invalid padding"}
	}
	return plain, nil
}

func (e *Encrypter) mac(iv, value string) string {
	h := hmac.New(sha256.New, e.key)
	h.Write([]byte(iv))
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil))
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(append([]byte{}, b...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, bool) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, false
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, false
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, false
		}
	}
	return b[:len(b)-n], true
}
