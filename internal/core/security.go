// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/crypto/argon2"

	"github.com/carterperez-dev/hotel-maintenance/internal/config"
)

const (
	argonKeyLen = 32
	saltLength  = 16
)

var ErrMalformedHash = errors.New("malformed password hash")

// Argon2Params is the cost of one argon2id derivation.
type Argon2Params struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	KeyLen  uint32
}

var DefaultArgon2Params = Argon2Params{
	Memory:  64 * 1024,
	Time:    1,
	Threads: 4,
	KeyLen:  argonKeyLen,
}

func ParamsFromConfig(cfg config.PasswordConfig) Argon2Params {
	return Argon2Params{
		Memory:  cfg.MemoryKiB,
		Time:    cfg.Iterations,
		Threads: cfg.Parallelism,
		KeyLen:  argonKeyLen,
	}
}

func (p Argon2Params) encode(salt, key []byte) string {
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory,
		p.Time,
		p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

func (p Argon2Params) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
}

// PasswordHasher hashes with its own params and verifies any argon2id hash,
// reporting a rehash when the stored params differ from its own.
type PasswordHasher struct {
	params Argon2Params

	decoyOnce sync.Once
	decoy     string
}

func NewPasswordHasher(params Argon2Params) *PasswordHasher {
	return &PasswordHasher{params: params}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return h.params.encode(salt, h.params.derive(password, salt)), nil
}

// Verify returns a replacement hash when the password matched a hash made
// with other params.
func (h *PasswordHasher) Verify(password, encoded string) (bool, string, error) {
	stored, salt, key, err := decodeHash(encoded)
	if err != nil {
		return false, "", err
	}

	if subtle.ConstantTimeCompare(key, stored.derive(password, salt)) != 1 {
		return false, "", nil
	}

	if stored == h.params {
		return true, "", nil
	}

	rehash, err := h.Hash(password)
	if err != nil {
		//nolint:nilerr // the password matched; the upgrade waits for the next login
		return true, "", nil
	}
	return true, rehash, nil
}

// VerifyOrDecoy spends one derivation even when there is no stored hash so
// unknown accounts answer in the same time as wrong passwords.
func (h *PasswordHasher) VerifyOrDecoy(
	password string,
	encoded *string,
) (bool, string, error) {
	if encoded == nil || *encoded == "" {
		h.decoyOnce.Do(func() {
			h.decoy, _ = h.Hash("decoy") //nolint:errcheck // empty decoy still burns a decode
		})
		_, _, _ = h.Verify(password, h.decoy) //nolint:errcheck // result discarded
		return false, "", nil
	}
	return h.Verify(password, *encoded)
}

var defaultHasher atomic.Pointer[PasswordHasher]

func init() {
	defaultHasher.Store(NewPasswordHasher(DefaultArgon2Params))
}

// SetPasswordHasher replaces the hasher used by the package functions.
func SetPasswordHasher(h *PasswordHasher) {
	defaultHasher.Store(h)
}

func HashPassword(password string) (string, error) {
	return defaultHasher.Load().Hash(password)
}

func VerifyPasswordWithRehash(password, encoded string) (bool, string, error) {
	return defaultHasher.Load().Verify(password, encoded)
}

func VerifyPasswordTimingSafe(password string, encoded *string) (bool, string, error) {
	return defaultHasher.Load().VerifyOrDecoy(password, encoded)
}

func decodeHash(encoded string) (Argon2Params, []byte, []byte, error) {
	var (
		p       Argon2Params
		version int
		saltB64 string
		keyB64  string
	)

	parts := splitHash(encoded)
	if len(parts) != 5 || parts[0] != "argon2id" {
		return p, nil, nil, ErrMalformedHash
	}

	if _, err := fmt.Sscanf(parts[1], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, fmt.Errorf("%w: version %q", ErrMalformedHash, parts[1])
	}

	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, fmt.Errorf("%w: params: %w", ErrMalformedHash, err)
	}

	saltB64, keyB64 = parts[3], parts[4]

	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt: %w", ErrMalformedHash, err)
	}

	key, err := base64.RawStdEncoding.DecodeString(keyB64)
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: key: %w", ErrMalformedHash, err)
	}

	//nolint:gosec // G115: argon2id keys are a few dozen bytes
	p.KeyLen = uint32(len(key))

	return p, salt, key, nil
}

// splitHash drops the leading empty field of a "$alg$v$params$salt$key" hash.
func splitHash(encoded string) []string {
	if len(encoded) == 0 || encoded[0] != '$' {
		return nil
	}

	var parts []string
	start := 1
	for i := 1; i <= len(encoded); i++ {
		if i == len(encoded) || encoded[i] == '$' {
			parts = append(parts, encoded[start:i])
			start = i + 1
		}
	}
	return parts
}

func GenerateSecureToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func GenerateRefreshToken() (string, error) {
	return GenerateSecureToken(32)
}

func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
