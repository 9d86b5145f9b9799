// AngelaMos | 2026
// keys.go

package auth

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

// keyIDLength is how many characters of the thumbprint end up in "kid".
const keyIDLength = 16

// loadSigningKey reads a PEM encoded P-256 private key and returns it with
// its public half. Both carry a kid derived from the key thumbprint, so
// restarts and replicas publish the same id for the same key.
func loadSigningKey(path string) (jwk.Key, jwk.Key, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read signing key: %w", err)
	}

	private, err := jwk.ParseKey(raw, jwk.WithPEM(true))
	if err != nil {
		return nil, nil, fmt.Errorf("parse signing key: %w", err)
	}
	if err := stampKey(private); err != nil {
		return nil, nil, err
	}

	public, err := private.PublicKey()
	if err != nil {
		return nil, nil, fmt.Errorf("derive public key: %w", err)
	}
	if err := public.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, nil, fmt.Errorf("set key usage: %w", err)
	}

	return private, public, nil
}

func stampKey(key jwk.Key) error {
	thumb, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return fmt.Errorf("key thumbprint: %w", err)
	}

	kid := base64.RawURLEncoding.EncodeToString(thumb)[:keyIDLength]
	if err := key.Set(jwk.KeyIDKey, kid); err != nil {
		return fmt.Errorf("set key id: %w", err)
	}
	if err := key.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return fmt.Errorf("set key algorithm: %w", err)
	}
	return nil
}

// GenerateKeyPair writes a fresh ES256 key pair. The private half is only
// readable by the owner.
func GenerateKeyPair(privatePath, publicPath string) error {
	ec, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	private, err := jwk.Import(ec)
	if err != nil {
		return fmt.Errorf("import key: %w", err)
	}
	if err := stampKey(private); err != nil {
		return err
	}

	public, err := private.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	if err := writePEM(privatePath, private, 0o600); err != nil {
		return err
	}
	//nolint:gosec // public key is meant to be world readable
	return writePEM(publicPath, public, 0o644)
}

func writePEM(path string, key jwk.Key, perm os.FileMode) error {
	encoded, err := jwk.Pem(key)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, encoded, perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
