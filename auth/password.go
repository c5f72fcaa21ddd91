package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultIterations = 600000
	maxIterations     = 10000000
	saltLength        = 16
	saltAlphabet      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	methodPrefix      = "pbkdf2:sha256:"
)

// Hasher produces salted PBKDF2-SHA256 digests encoded as
// "pbkdf2:sha256:<iterations>$<salt>$<hex>". Digests written by older
// deployments in bcrypt form are still accepted by Verify.
type Hasher struct {
	iterations int
}

func NewHasher(iterations int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Hasher{iterations: iterations}
}

func (h *Hasher) Hash(plain string) (string, error) {
	salt, err := randomSalt(saltLength)
	if err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	key := pbkdf2.Key([]byte(plain), []byte(salt), h.iterations, sha256.Size, sha256.New)
	return methodPrefix + strconv.Itoa(h.iterations) + "$" + salt + "$" + hex.EncodeToString(key), nil
}

// Verify reports whether plain matches digest. Malformed digests never match.
func (h *Hasher) Verify(digest, plain string) bool {
	if isBcrypt(digest) {
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
	}
	iterations, salt, want, ok := parseDigest(digest)
	if !ok {
		return false
	}
	got := pbkdf2.Key([]byte(plain), []byte(salt), iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// NeedsRehash reports whether digest was produced with weaker parameters
// than the hasher's current ones.
func (h *Hasher) NeedsRehash(digest string) bool {
	if isBcrypt(digest) {
		return true
	}
	iterations, _, _, ok := parseDigest(digest)
	return ok && iterations < h.iterations
}

func isBcrypt(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") || strings.HasPrefix(digest, "$2b$") || strings.HasPrefix(digest, "$2y$")
}

func parseDigest(digest string) (int, string, []byte, bool) {
	parts := strings.Split(digest, "$")
	if len(parts) != 3 || !strings.HasPrefix(parts[0], methodPrefix) || parts[1] == "" {
		return 0, "", nil, false
	}
	iterations, err := strconv.Atoi(strings.TrimPrefix(parts[0], methodPrefix))
	if err != nil || iterations <= 0 || iterations > maxIterations {
		return 0, "", nil, false
	}
	sum, err := hex.DecodeString(parts[2])
	if err != nil || len(sum) == 0 {
		return 0, "", nil, false
	}
	return iterations, parts[1], sum, true
}

func randomSalt(n int) (string, error) {
	max := big.NewInt(int64(len(saltAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = saltAlphabet[idx.Int64()]
	}
	return string(b), nil
}
