package proof

import (
	"crypto/sha256"
	"errors"
	"os"
	"strings"
	"testing"

	"lukechampine.com/blake3"
)

const helloWorldSHA256 = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func TestHashBytesSHA256(t *testing.T) {
	h := Sha256.HashBytes([]byte("hello world"))
	if h.Hex() != helloWorldSHA256 {
		t.Errorf("HashBytes = %s, want %s", h.Hex(), helloWorldSHA256)
	}
}

func TestHashBytesSHA256Empty(t *testing.T) {
	h := Sha256.HashBytes(nil)
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h.Hex() != want {
		t.Errorf("HashBytes(empty) = %s, want %s", h.Hex(), want)
	}
}

func TestHashBytesBlake3(t *testing.T) {
	data := []byte("hello world")
	h := Blake3.HashBytes(data)
	want := Hash256(blake3.Sum256(data))
	if h != want {
		t.Errorf("HashBytes = %s, want %s", h.Hex(), want.Hex())
	}
	if h == Sha256.HashBytes(data) {
		t.Error("BLAKE3 and SHA-256 digests should differ")
	}
}

func TestHashFile(t *testing.T) {
	content := []byte("hello world")
	tmp, err := os.CreateTemp(t.TempDir(), "hash")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmp.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := tmp.Close(); err != nil {
		t.Fatal(err)
	}

	h, err := HashFile(tmp.Name(), Sha256)
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}
	if h.Hex() != helloWorldSHA256 {
		t.Errorf("HashFile = %s, want %s", h.Hex(), helloWorldSHA256)
	}

	b, err := HashFile(tmp.Name(), Blake3)
	if err != nil {
		t.Fatalf("HashFile blake3 failed: %v", err)
	}
	if want := Hash256(blake3.Sum256(content)); b != want {
		t.Errorf("HashFile blake3 = %s, want %s", b.Hex(), want.Hex())
	}
}

func TestHashFileLargerThanChunk(t *testing.T) {
	// Content spanning several 8 KiB chunks must stream to the same
	// digest as hashing it in one shot.
	content := make([]byte, 3*fileChunkSize+17)
	for i := range content {
		content[i] = byte(i)
	}
	path := t.TempDir() + "/big"
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	h, err := HashFile(path, Sha256)
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}
	if want := Hash256(sha256.Sum256(content)); h != want {
		t.Errorf("streamed digest %s, want %s", h.Hex(), want.Hex())
	}
}

func TestHashFileMissing(t *testing.T) {
	if _, err := HashFile(t.TempDir()+"/nope", Sha256); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestHashFromHexFullDigest(t *testing.T) {
	h, err := HashFromHex(helloWorldSHA256, Sha256)
	if err != nil {
		t.Fatalf("HashFromHex failed: %v", err)
	}
	// 64-char input is used verbatim, no re-hash.
	if h.Hex() != helloWorldSHA256 {
		t.Errorf("HashFromHex = %s, want %s", h.Hex(), helloWorldSHA256)
	}
}

func TestHashFromHexShortID(t *testing.T) {
	// A 40-char identifier decodes to 20 bytes that are re-hashed with
	// the selected algorithm.
	short := "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2"
	raw := []byte{
		0xa1, 0xb2, 0xc3, 0xd4, 0xe5, 0xf6, 0xa1, 0xb2, 0xc3, 0xd4,
		0xe5, 0xf6, 0xa1, 0xb2, 0xc3, 0xd4, 0xe5, 0xf6, 0xa1, 0xb2,
	}

	sha, err := HashFromHex(short, Sha256)
	if err != nil {
		t.Fatalf("HashFromHex failed: %v", err)
	}
	if want := Sha256.HashBytes(raw); sha != want {
		t.Errorf("derived digest %s, want %s", sha.Hex(), want.Hex())
	}

	b3, err := HashFromHex(short, Blake3)
	if err != nil {
		t.Fatalf("HashFromHex blake3 failed: %v", err)
	}
	if want := Blake3.HashBytes(raw); b3 != want {
		t.Errorf("derived blake3 digest %s, want %s", b3.Hex(), want.Hex())
	}
	if sha == b3 {
		t.Error("re-hash should depend on the algorithm")
	}
}

func TestHashFromHexPrefixAndWhitespace(t *testing.T) {
	h, err := HashFromHex("  0x"+helloWorldSHA256+"\n", Sha256)
	if err != nil {
		t.Fatalf("HashFromHex failed: %v", err)
	}
	if h.Hex() != helloWorldSHA256 {
		t.Errorf("HashFromHex = %s, want %s", h.Hex(), helloWorldSHA256)
	}
}

func TestHashFromHexInvalid(t *testing.T) {
	cases := []string{
		"abc123",
		"",
		strings.Repeat("z", 64),
		strings.Repeat("z", 40),
		strings.Repeat("a", 63),
	}
	for _, in := range cases {
		if _, err := HashFromHex(in, Sha256); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("HashFromHex(%q) error = %v, want ErrInvalidHash", in, err)
		}
	}
}

func TestHashAlgorithmTags(t *testing.T) {
	if Sha256.Name() != "SHA-256" || Blake3.Name() != "BLAKE3" {
		t.Errorf("unexpected names: %s, %s", Sha256.Name(), Blake3.Name())
	}
	if Sha256.String() != "sha256" || Blake3.String() != "blake3" {
		t.Errorf("unexpected tags: %s, %s", Sha256, Blake3)
	}

	for _, tag := range []string{"sha256", "blake3", ""} {
		if _, err := ParseHashAlgorithm(tag); err != nil {
			t.Errorf("ParseHashAlgorithm(%q) failed: %v", tag, err)
		}
	}
	if _, err := ParseHashAlgorithm("md5"); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}
