package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// ErrPasswordMismatch is returned by VerifyPassword when the password is wrong.
var ErrPasswordMismatch = errors.New("password does not match")

var errHashFormat = errors.New("invalid hash format")

// argonParams are the Argon2id cost settings. They travel with every hash so
// older hashes still verify after the defaults change.
type argonParams struct {
	memory  uint32 // KiB
	time    uint32
	threads uint8
}

var defaultParams = argonParams{memory: 19 * 1024, time: 2, threads: 1}

const (
	argonKeyLen  = 32
	argonSaltLen = 16
)

// PasswordHasher hashes passwords with Argon2id. Pepper is appended to every
// password before hashing and is never stored alongside the hash.
type PasswordHasher struct {
	Pepper string
}

// NewPasswordHasher returns a hasher with a random pepper. Hashes made by it
// only verify within the same process, which suits an in-memory user pool.
func NewPasswordHasher() (*PasswordHasher, error) {
	pepper, err := GenerateToken(argonKeyLen)
	if err != nil {
		return nil, err
	}
	return &PasswordHasher{Pepper: pepper}, nil
}

func (h *PasswordHasher) derive(password string, salt []byte, p argonParams, keyLen uint32) []byte {
	return argon2.IDKey([]byte(password+h.Pepper), salt, p.time, p.memory, p.threads, keyLen)
}

// HashPassword returns a PHC string: $argon2id$v=19$m=..,t=..,p=..$salt$hash
func (h *PasswordHasher) HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := h.derive(password, salt, defaultParams, argonKeyLen)

	enc := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		defaultParams.memory, defaultParams.time, defaultParams.threads,
		enc.EncodeToString(salt), enc.EncodeToString(key),
	), nil
}

// VerifyPassword checks password against a hash from HashPassword.
func (h *PasswordHasher) VerifyPassword(password, encodedHash string) error {
	p, salt, want, err := decodeHash(encodedHash)
	if err != nil {
		return err
	}

	got := h.derive(password, salt, p, uint32(len(want))) // #nosec G115 -- len of a decoded hash
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

func decodeHash(encoded string) (argonParams, []byte, []byte, error) {
	var p argonParams

	// "", "argon2id", "v=19", "m=X,t=Y,p=Z", salt, hash
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" {
		return p, nil, nil, fmt.Errorf("%w: expected 6 fields", errHashFormat)
	}
	if fields[1] != "argon2id" {
		return p, nil, nil, fmt.Errorf("%w: algorithm %q", errHashFormat, fields[1])
	}
	if fields[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return p, nil, nil, fmt.Errorf("%w: version %q", errHashFormat, fields[2])
	}
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return p, nil, nil, fmt.Errorf("%w: parameters: %w", errHashFormat, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(fields[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt: %w", errHashFormat, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(fields[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: hash: %w", errHashFormat, err)
	}
	return p, salt, key, nil
}
