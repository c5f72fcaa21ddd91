package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashVerify(t *testing.T) {
	h := NewHasher(1000)
	for _, plain := range []string{"Passw0rd!", "", "ünïcødé-pässwörd", strings.Repeat("x", 200)} {
		digest, err := h.Hash(plain)
		if err != nil {
			t.Fatalf("hash %q: %v", plain, err)
		}
		if strings.Contains(digest, plain) && plain != "" {
			t.Fatalf("digest contains plaintext")
		}
		if !h.Verify(digest, plain) {
			t.Fatalf("verify(hash(%q), %q) = false", plain, plain)
		}
		if h.Verify(digest, plain+"x") {
			t.Fatalf("verify accepted a different password for %q", plain)
		}
	}
}

func TestHashFormat(t *testing.T) {
	h := NewHasher(1000)
	a, _ := h.Hash("secret")
	b, _ := h.Hash("secret")
	if a == b {
		t.Fatalf("two hashes of the same password must differ by salt")
	}
	parts := strings.Split(a, "$")
	if len(parts) != 3 || parts[0] != "pbkdf2:sha256:1000" {
		t.Fatalf("unexpected digest layout %q", a)
	}
	if len(parts[1]) < 8 {
		t.Fatalf("salt too short: %q", parts[1])
	}
}

func TestVerifyWerkzeugDigest(t *testing.T) {
	// pbkdf2_hmac("sha256", b"password", b"salt", 1) as produced by werkzeug's generate_password_hash.
	digest := "pbkdf2:sha256:1$salt$120fb6cffcf8b32c43e7225256c4f837a86548c92ccc35480805987cb70be17b"
	h := NewHasher(0)
	if !h.Verify(digest, "password") {
		t.Fatalf("werkzeug digest not accepted")
	}
	if h.Verify(digest, "Password") {
		t.Fatalf("werkzeug digest accepted a wrong password")
	}
}

func TestVerifyMalformed(t *testing.T) {
	h := NewHasher(1000)
	for _, digest := range []string{
		"",
		"plaintext",
		"pbkdf2:sha256:1000$salt",
		"pbkdf2:sha256:abc$salt$00",
		"pbkdf2:sha256:-5$salt$00",
		"pbkdf2:sha256:1000$$00",
		"pbkdf2:sha256:1000$salt$zz",
		"pbkdf2:sha256:1000$salt$",
		"pbkdf2:md5:1000$salt$00",
		"pbkdf2:sha256:99999999999$salt$00",
		"$2a$10$short",
	} {
		if h.Verify(digest, "anything") {
			t.Fatalf("malformed digest %q verified", digest)
		}
	}
}

func TestBcryptDigest(t *testing.T) {
	b, err := bcrypt.GenerateFromPassword([]byte("legacy"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	h := NewHasher(1000)
	if !h.Verify(string(b), "legacy") {
		t.Fatalf("bcrypt digest not accepted")
	}
	if h.Verify(string(b), "other") {
		t.Fatalf("bcrypt digest accepted a wrong password")
	}
	if !h.NeedsRehash(string(b)) {
		t.Fatalf("bcrypt digests must be rehashed")
	}
}

func TestNeedsRehash(t *testing.T) {
	weak, _ := NewHasher(500).Hash("pw")
	h := NewHasher(1000)
	if !h.NeedsRehash(weak) {
		t.Fatalf("digest with fewer iterations must need a rehash")
	}
	current, _ := h.Hash("pw")
	if h.NeedsRehash(current) {
		t.Fatalf("current digest must not need a rehash")
	}
	if h.NeedsRehash("garbage") {
		t.Fatalf("malformed digest cannot be rehashed")
	}
}
