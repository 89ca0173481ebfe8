package impl

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

type Argon2Params struct {
	Time    uint32 // iterations
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

// PasswordServiceImpl derives argon2id hashes encoded as a single
// self-describing string, so the stored value carries the salt and the cost
// parameters it was created with.
type PasswordServiceImpl struct {
	cur Argon2Params
}

func NewPasswordServiceArgon2id() *PasswordServiceImpl {
	return &PasswordServiceImpl{
		cur: Argon2Params{
			Time:    3,
			Memory:  64 * 1024, // 64 MiB
			Threads: 1,
			KeyLen:  32,
			SaltLen: 16,
		},
	}
}

func (p *PasswordServiceImpl) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	salt := make([]byte, p.cur.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(plain), salt, p.cur.Time, p.cur.Memory, p.cur.Threads, p.cur.KeyLen)
	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.cur.Memory, p.cur.Time, p.cur.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// Verify re-derives the key with the stored parameters and compares in
// constant time. Any decode failure reports false.
func (p *PasswordServiceImpl) Verify(plain, encoded string) bool {
	if plain == "" || encoded == "" {
		return false
	}
	params, salt, key, err := decodeHash(encoded)
	if err != nil {
		return false
	}
	calculated := argon2.IDKey([]byte(plain), salt, params.Time, params.Memory, params.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(calculated, key) == 1
}

func decodeHash(encoded string) (Argon2Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	// "", "argon2id", "v=19", "m=...,t=...,p=...", salt, hash
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Argon2Params{}, nil, nil, fmt.Errorf("malformed hash")
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return Argon2Params{}, nil, nil, err
	}
	if version != argon2.Version {
		return Argon2Params{}, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}
	var params Argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &params.Threads); err != nil {
		return Argon2Params{}, nil, nil, err
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Argon2Params{}, nil, nil, err
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return Argon2Params{}, nil, nil, err
	}
	return params, salt, key, nil
}
