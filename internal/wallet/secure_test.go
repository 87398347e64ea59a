package wallet

import (
	"path/filepath"
	"testing"
)

const testSeed = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestSeedEncryptionRoundTrip(t *testing.T) {
	encrypted, err := EncryptSeed(testSeed, "correct horse battery staple")
	if err != nil {
		t.Fatalf("EncryptSeed failed: %v", err)
	}
	if encrypted == testSeed {
		t.Fatal("ciphertext must differ from plaintext")
	}

	decrypted, err := DecryptSeed(encrypted, "correct horse battery staple")
	if err != nil {
		t.Fatalf("DecryptSeed failed: %v", err)
	}
	if decrypted != testSeed {
		t.Errorf("round trip changed the seed: %q", decrypted)
	}
}

func TestSeedDecryptionWrongPassword(t *testing.T) {
	encrypted, err := EncryptSeed(testSeed, "right password")
	if err != nil {
		t.Fatalf("EncryptSeed failed: %v", err)
	}

	if _, err := DecryptSeed(encrypted, "wrong password"); err == nil {
		t.Fatal("wrong password must fail authentication")
	}
}

func TestSeedDecryptionMalformed(t *testing.T) {
	for _, input := range []string{"", "abc", "a:b", "not base64:also not:nope"} {
		if _, err := DecryptSeed(input, "pw"); err == nil {
			t.Errorf("malformed input %q should fail", input)
		}
	}
}

func TestSeedFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.enc")

	if err := SaveEncryptedSeed(path, testSeed, "pw"); err != nil {
		t.Fatalf("SaveEncryptedSeed failed: %v", err)
	}

	loaded, err := LoadEncryptedSeed(path, "pw")
	if err != nil {
		t.Fatalf("LoadEncryptedSeed failed: %v", err)
	}
	if loaded != testSeed {
		t.Errorf("loaded seed %q does not match", loaded)
	}
}
