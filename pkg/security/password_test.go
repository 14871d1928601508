package security

import (
	"strings"
	"testing"

	"github.com/feastly-app/feastly-backend/pkg/config"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	encoded, err := HashPassword("hunter2hunter2", testPasswordConfig())
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", encoded)
	}

	ok, err := VerifyPassword("hunter2hunter2", encoded)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Error("correct password should verify")
	}

	ok, err = VerifyPassword("wrong-password", encoded)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Error("wrong password should not verify")
	}
}

func TestHashPasswordEmpty(t *testing.T) {
	t.Parallel()

	if _, err := HashPassword("", testPasswordConfig()); err == nil {
		t.Error("empty password should error")
	}
}

func TestVerifyPasswordMalformed(t *testing.T) {
	t.Parallel()

	if _, err := VerifyPassword("anything", "not-a-hash"); err != ErrInvalidHash {
		t.Errorf("err = %v, want ErrInvalidHash", err)
	}
}
