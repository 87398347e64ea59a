package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// EncryptSeed protects a seed phrase with a password for storage on disk.
// Output is salt:iv:ciphertext, each part base64.
func EncryptSeed(seedPhrase string, password string) (string, error) {
	key, salt, err := deriveKey(password, nil)
	if err != nil {
		return "", err
	}

	iv := make([]byte, 12)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	ciphertext := aesgcm.Seal(nil, iv, []byte(seedPhrase), nil)

	return base64.StdEncoding.EncodeToString(salt) + ":" +
		base64.StdEncoding.EncodeToString(iv) + ":" +
		base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptSeed reverses EncryptSeed. A wrong password fails GCM
// authentication rather than returning garbage.
func DecryptSeed(encrypted string, password string) (string, error) {
	parts := strings.Split(encrypted, ":")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid encrypted seed format")
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("invalid encrypted seed format: %v", err)
	}
	iv, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("invalid encrypted seed format: %v", err)
	}
	encryptedData, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("invalid encrypted seed format: %v", err)
	}

	key, _, err := deriveKey(password, salt)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	plaintext, err := aesgcm.Open(nil, iv, encryptedData, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt seed: wrong password or corrupted file")
	}

	return string(plaintext), nil
}

// SaveEncryptedSeed writes the encrypted seed phrase to path with owner-only
// permissions.
func SaveEncryptedSeed(path string, seedPhrase string, password string) error {
	encrypted, err := EncryptSeed(seedPhrase, password)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(encrypted), 0600)
}

// LoadEncryptedSeed reads and decrypts a seed phrase written by
// SaveEncryptedSeed.
func LoadEncryptedSeed(path string, password string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return DecryptSeed(strings.TrimSpace(string(data)), password)
}

func deriveKey(password string, salt []byte) ([]byte, []byte, error) {
	if salt == nil {
		salt = make([]byte, 32)
		if _, err := rand.Read(salt); err != nil {
			return nil, nil, err
		}
	}

	key, err := scrypt.Key([]byte(password), salt, 1<<15, 8, 1, 32)
	if err != nil {
		return nil, nil, err
	}

	return key, salt, nil
}
