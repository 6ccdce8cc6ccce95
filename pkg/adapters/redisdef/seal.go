package redisdef

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

// sealedPrefix marks an encrypted payload so mixed deployments fail loudly
// instead of feeding ciphertext to the JSON decoder.
const sealedPrefix = "sealed:"

// seal encrypts data with the active key when one is configured. Without a
// key the payload passes through untouched.
func (s *Store) seal(data []byte) ([]byte, error) {
	if s.cipherKey == nil {
		return data, nil
	}

	block, err := aes.NewCipher(s.cipherKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	sealed := gcm.Seal(nonce, nonce, data, nil)
	return []byte(sealedPrefix + base64.StdEncoding.EncodeToString(sealed)), nil
}

// open reverses seal. A store with a key refuses plaintext payloads and a
// store without one refuses sealed payloads; silently passing either
// through would hide a misconfigured deployment.
func (s *Store) open(payload []byte) ([]byte, error) {
	marked := strings.HasPrefix(string(payload), sealedPrefix)

	if s.cipherKey == nil {
		if marked {
			return nil, errors.New("payload is sealed and no cipher key is configured")
		}
		return payload, nil
	}
	if !marked {
		return nil, errors.New("cipher key is configured but the stored payload is not sealed")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(string(payload[len(sealedPrefix):]))
	if err != nil {
		return nil, fmt.Errorf("decode sealed payload: %w", err)
	}

	if plain, err := unseal(ciphertext, s.cipherKey); err == nil {
		return plain, nil
	}
	for _, key := range s.fallbackKeys {
		if plain, err := unseal(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("unseal failed with every configured key")
}

func unseal(ciphertext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext shorter than nonce")
	}
	nonce, body := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
