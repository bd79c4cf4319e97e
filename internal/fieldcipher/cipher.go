// Package fieldcipher encrypts the sensitive fields of a candidate record so
// persisted snapshots never carry plaintext contact details.
package fieldcipher

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// SensitiveFields are the record keys protected at rest.
var SensitiveFields = []string{"Email", "Phone"}

// ErrDecrypt marks ciphertext that cannot be read: wrong key, tampered input,
// or plaintext passed in error. Fatal for the affected field, not the session.
var ErrDecrypt = errors.New("fieldcipher: ciphertext unreadable")

// Cipher applies authenticated encryption to individual record fields and
// encodes the result as URL-safe base64 text.
type Cipher struct {
	aead interface {
		Seal(dst, nonce, plaintext, additionalData []byte) []byte
		Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
		NonceSize() int
	}
}

func New(key []byte) (*Cipher, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// EncryptFields returns a copy of record with each named field that is
// present replaced by its encrypted text encoding. Absent fields and the
// input map are untouched.
func (c *Cipher) EncryptFields(record map[string]string, fields ...string) (map[string]string, error) {
	out := cloneRecord(record)
	for _, name := range fields {
		value, ok := out[name]
		if !ok {
			continue
		}
		enc, err := c.encrypt(value)
		if err != nil {
			return nil, fmt.Errorf("encrypt field %s: %w", name, err)
		}
		out[name] = enc
	}
	return out, nil
}

// DecryptFields reverses EncryptFields on a copy of record. A field that
// cannot be decrypted yields an error wrapping ErrDecrypt naming the field;
// fields before it are already decrypted in the returned copy.
func (c *Cipher) DecryptFields(record map[string]string, fields ...string) (map[string]string, error) {
	out := cloneRecord(record)
	for _, name := range fields {
		value, ok := out[name]
		if !ok {
			continue
		}
		plain, err := c.decrypt(value)
		if err != nil {
			return out, fmt.Errorf("field %s: %w", name, err)
		}
		out[name] = plain
	}
	return out, nil
}

// UnreadablePlaceholder replaces a field whose ciphertext cannot be read in
// lenient display decryption.
const UnreadablePlaceholder = "[unreadable]"

// DecryptForDisplay is the lenient variant of DecryptFields for operator
// views: every named field is attempted independently and an unreadable one
// is replaced by UnreadablePlaceholder, so the rest of the row survives. The
// returned error reports the first unreadable field for logging.
func (c *Cipher) DecryptForDisplay(record map[string]string, fields ...string) (map[string]string, error) {
	out := cloneRecord(record)
	var firstErr error
	for _, name := range fields {
		value, ok := out[name]
		if !ok {
			continue
		}
		plain, err := c.decrypt(value)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("field %s: %w", name, err)
			}
			out[name] = UnreadablePlaceholder
			continue
		}
		out[name] = plain
	}
	return out, firstErr
}

func (c *Cipher) encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

func (c *Cipher) decrypt(encoded string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	if len(raw) < c.aead.NonceSize() {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
	}
	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return string(plain), nil
}

func cloneRecord(record map[string]string) map[string]string {
	out := make(map[string]string, len(record))
	for k, v := range record {
		out[k] = v
	}
	return out
}
