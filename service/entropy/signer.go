package entropy

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/viant/scy"
)

// ErrInvalidSignature rejects fulfillments whose signature does not verify.
var ErrInvalidSignature = errors.New("entropy: invalid fulfillment signature")

// Signer authenticates fulfillments with HMAC-SHA256 over the handle and
// seed bytes.
type Signer struct {
	key []byte
}

// NewSigner creates a signer with the shared provider key.
func NewSigner(key []byte) *Signer {
	return &Signer{key: key}
}

// NewSignerFromURL loads the signing key through secret storage.
func NewSignerFromURL(ctx context.Context, keyURL string) (*Signer, error) {
	key, err := LoadKey(ctx, keyURL)
	if err != nil {
		return nil, err
	}
	return NewSigner(key), nil
}

// Sign computes the fulfillment signature.
func (s *Signer) Sign(f *Fulfillment) []byte {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(digestInput(f))
	return mac.Sum(nil)
}

// Verifier checks fulfillment signatures with the shared provider key.
type Verifier struct {
	key []byte
}

// NewVerifier creates a verifier with the shared provider key.
func NewVerifier(key []byte) *Verifier {
	return &Verifier{key: key}
}

// NewVerifierFromURL loads the verification key through secret storage.
func NewVerifierFromURL(ctx context.Context, keyURL string) (*Verifier, error) {
	key, err := LoadKey(ctx, keyURL)
	if err != nil {
		return nil, err
	}
	return NewVerifier(key), nil
}

// Verify returns ErrInvalidSignature unless the fulfillment carries a valid
// signature for its handle and seed.
func (v *Verifier) Verify(f *Fulfillment) error {
	mac := hmac.New(sha256.New, v.key)
	mac.Write(digestInput(f))
	if !hmac.Equal(mac.Sum(nil), f.Signature) {
		return ErrInvalidSignature
	}
	return nil
}

func digestInput(f *Fulfillment) []byte {
	input := make([]byte, 0, len(f.Handle)+len(f.Seed))
	input = append(input, f.Handle...)
	input = append(input, f.Seed[:]...)
	return input
}

// LoadKey reads the shared fulfillment key from secret storage. The URL may
// point at plain or scy-encrypted content.
func LoadKey(ctx context.Context, keyURL string) ([]byte, error) {
	secret, err := scy.New().Load(ctx, scy.NewResource(nil, keyURL, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to load fulfillment key from %s: %w", keyURL, err)
	}
	return []byte(secret.String()), nil
}

// StoreKey writes the shared fulfillment key to secret storage.
func StoreKey(ctx context.Context, keyURL string, key []byte) error {
	secret := scy.NewSecret(string(key), scy.NewResource(nil, keyURL, ""))
	if err := scy.New().Store(ctx, secret); err != nil {
		return fmt.Errorf("failed to store fulfillment key at %s: %w", keyURL, err)
	}
	return nil
}
