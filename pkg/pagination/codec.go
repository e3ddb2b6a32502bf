/*
Copyright © 2026 kiteran <kiteran@proton.me>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package pagination

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
)

// Codec turns integer row identifiers into opaque, tamper-evident
// cursor tokens and back. Tokens are AES-256-GCM ciphertexts of the
// decimal identifier, nonce-prefixed and URL-safe base64 encoded. A
// fresh nonce is drawn per Encode call, so two tokens for the same
// identifier differ byte-wise yet decode to the same value.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec derives the AES key as the SHA-256 digest of secret.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("cursor secret cannot be empty")
	}

	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GCM: %w", err)
	}
	return &Codec{aead: aead}, nil
}

func (c *Codec) Encode(id int64) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(strconv.FormatInt(id, 10)), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decode rejects malformed, truncated or tampered tokens with
// ErrInvalidCursor; it never returns a wrong identifier.
func (c *Codec) Decode(token string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed token", ErrInvalidCursor)
	}

	if len(raw) <= c.aead.NonceSize() {
		return 0, fmt.Errorf("%w: token too short", ErrInvalidCursor)
	}

	nonce, ciphertext := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: authentication failed", ErrInvalidCursor)
	}

	id, err := strconv.ParseInt(string(plain), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: payload is not an identifier", ErrInvalidCursor)
	}
	return id, nil
}
