package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters. Deliberately slow; changing them invalidates stored hashes,
// so treat them as part of the hash format.
const (
	scryptN         = 32768
	scryptR         = 8
	scryptP         = 1
	scryptKeyLen    = 64
	passwordSaltLen = 16
)

// HashPassword derives an scrypt key from the password with a fresh random salt
// and returns it as "digestHex.saltHex".
func HashPassword(password string) (string, error) {
	salt := make([]byte, passwordSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate password salt: %w", err)
	}
	digest, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("failed to derive password key: %w", err)
	}
	return hex.EncodeToString(digest) + "." + hex.EncodeToString(salt), nil
}

// CheckPasswordHash re-derives the digest for candidate with the stored salt and
// compares the two in constant time. Malformed stored values return false rather
// than an error so a corrupted row behaves like a wrong password.
func CheckPasswordHash(candidate, stored string) bool {
	digestHex, saltHex, found := strings.Cut(stored, ".")
	if !found {
		return false
	}
	storedDigest, err := hex.DecodeString(digestHex)
	if err != nil || len(storedDigest) != scryptKeyLen {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	candidateDigest, err := scrypt.Key([]byte(candidate), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(storedDigest, candidateDigest) == 1
}
