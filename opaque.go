package dt0

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/zoobzio/dt0/json"
)

// Config names consulted when no explicit key or cipher is given.
const (
	ConfigKeyName    = "app.key"
	ConfigCipherName = "app.cipher"
)

const (
	base64Prefix = "base64:"
	configPrefix = "config:"
)

// EncryptedCaster encrypts a field on Write and decrypts it on Read.
//
// On Read, strings that are recognized encrypted payloads are decrypted and
// every other value passes through unchanged, so instances may be seeded
// with plaintext and already-deserialized compound values round-trip.
type EncryptedCaster struct {
	serialize  bool
	serializer Codec
	enc        *Encrypter
}

type encryptedOptions struct {
	serialize  bool
	serializer Codec
	key        string
	cipher     string
}

// EncryptedOption configures NewEncrypted.
type EncryptedOption func(*encryptedOptions)

// WithSerialize encrypts the serialized form of the value instead of its text form.
func WithSerialize() EncryptedOption {
	return func(o *encryptedOptions) { o.serialize = true }
}

// WithSerializer sets the codec used in serialize mode. Defaults to JSON.
func WithSerializer(c Codec) EncryptedOption {
	return func(o *encryptedOptions) { o.serializer = c }
}

// WithKey sets the key. A "base64:" prefix marks base64 encoded key material;
// a "config:" prefix names a config entry holding the key.
func WithKey(key string) EncryptedOption {
	return func(o *encryptedOptions) { o.key = key }
}

// WithCipher sets the cipher. A "config:" prefix names a config entry holding it.
func WithCipher(name string) EncryptedOption {
	return func(o *encryptedOptions) { o.cipher = name }
}

// NewEncrypted returns an encrypting caster.
//
// Key and cipher are resolved once here. Without an explicit key, cfg must
// provide ConfigKeyName; without an explicit cipher, ConfigCipherName is
// consulted and DefaultCipher used when absent. The Encrypter is fetched
// from cache, so casters with identical key material share one transform.
func NewEncrypted(cache *TransformCache, cfg ConfigLookup, opts ...EncryptedOption) (*EncryptedCaster, error) {
	o := encryptedOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.serializer == nil {
		o.serializer = json.New()
	}
	if cache == nil {
		return nil, newConfigError(ErrConfig, "transform cache", "", fmt.Errorf("cache is required"))
	}

	key, err := resolveKey(o.key, cfg)
	if err != nil {
		return nil, err
	}
	c, err := resolveCipher(o.cipher, cfg)
	if err != nil {
		return nil, err
	}

	enc, err := cache.Get(key, c)
	if err != nil {
		return nil, err
	}
	return &EncryptedCaster{serialize: o.serialize, serializer: o.serializer, enc: enc}, nil
}

// Encrypter returns the shared transform behind this caster.
func (c *EncryptedCaster) Encrypter() *Encrypter { return c.enc }

// Cast encrypts on Write and decrypts recognized payloads on Read.
func (c *EncryptedCaster) Cast(dir Direction, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	if dir == Write {
		if c.serialize {
			return c.enc.Encrypt(v, c.serializer)
		}
		s, err := CoerceScalar(KindString, v)
		if err != nil {
			return nil, err
		}
		return c.enc.EncryptString(s.(string))
	}

	s, ok := v.(string)
	if !ok || !IsEncrypted(s) {
		return v, nil
	}
	if c.serialize {
		return c.enc.Decrypt(s, c.serializer)
	}
	return c.enc.DecryptString(s)
}

func lookup(cfg ConfigLookup, name string) (string, error) {
	if cfg == nil {
		return "", newConfigError(ErrConfig, name, "", fmt.Errorf("no config lookup"))
	}
	v, err := cfg.Lookup(name)
	if err != nil {
		return "", newConfigError(ErrConfig, name, "", err)
	}
	if v == "" {
		return "", newConfigError(ErrConfig, name, "", fmt.Errorf("empty value"))
	}
	return v, nil
}

func resolveKey(key string, cfg ConfigLookup) ([]byte, error) {
	if key == "" {
		key = configPrefix + ConfigKeyName
	}
	if name, ok := strings.CutPrefix(key, configPrefix); ok {
		v, err := lookup(cfg, name)
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(v, configPrefix) {
			return nil, newConfigError(ErrConfig, name, "", fmt.Errorf("config reference cycle"))
		}
		key = v
	}
	if enc, ok := strings.CutPrefix(key, base64Prefix); ok {
		raw, err := base64.StdEncoding.DecodeString(enc)
		if err != nil {
			return nil, newConfigError(ErrInvalidKey, base64Prefix, "", err)
		}
		return raw, nil
	}
	return []byte(key), nil
}

func resolveCipher(name string, cfg ConfigLookup) (Cipher, error) {
	explicit := name != ""
	if !explicit {
		if cfg == nil {
			return DefaultCipher, nil
		}
		v, err := cfg.Lookup(ConfigCipherName)
		if err != nil || v == "" {
			return DefaultCipher, nil
		}
		name = v
	} else if ref, ok := strings.CutPrefix(name, configPrefix); ok {
		v, err := lookup(cfg, ref)
		if err != nil {
			return "", err
		}
		name = v
	}

	c, ok := ParseCipher(name)
	if !ok {
		return "", newConfigError(ErrConfig, name, "", fmt.Errorf("unsupported cipher"))
	}
	return c, nil
}
