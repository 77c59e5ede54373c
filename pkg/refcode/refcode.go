// Package refcode issues the opaque tokens guests use to manage a booking
// without an account. A code seals the owning unit id and booking id with
// AES-GCM, so it cannot be derived from sequential ids and needs no lookup
// table of its own.
package refcode

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrInvalidCode = errors.New("invalid reference code")

type Sealer struct {
	key []byte
}

// NewSealer expects a base64 std-encoded 32-byte key.
func NewSealer(encodedKey string) (*Sealer, error) {
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("reference code key is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("reference code key must be 32 bytes, got %d", len(key))
	}
	return &Sealer{key: key}, nil
}

func (s *Sealer) Seal(unitID, bookingID string) (string, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	plaintext := []byte(unitID + ":" + bookingID)
	ct := aesgcm.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

// Open recovers (unitID, bookingID) from a sealed code. Any tampered or
// malformed code yields ErrInvalidCode rather than a decryption detail.
func (s *Sealer) Open(code string) (string, string, error) {
	data, err := base64.RawURLEncoding.DecodeString(code)
	if err != nil {
		return "", "", ErrInvalidCode
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", "", err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", "", err
	}

	nonceSize := aesgcm.NonceSize()
	if len(data) < nonceSize {
		return "", "", ErrInvalidCode
	}

	pt, err := aesgcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", "", ErrInvalidCode
	}

	parts := strings.SplitN(string(pt), ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", ErrInvalidCode
	}

	return parts[0], parts[1], nil
}
