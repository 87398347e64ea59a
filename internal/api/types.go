package api

import (
	"crypto/rand"
	"sync"

	"github.com/golang-jwt/jwt/v4"

	"github.com/zopentimestamps/zots/lib/proof"
	"github.com/zopentimestamps/zots/lib/verify"
)

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	ApiKey string `json:"api_key"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type StampRequest struct {
	Hash      string `json:"hash"`
	Algorithm string `json:"algorithm,omitempty"`
	Wait      bool   `json:"wait,omitempty"`
}

type StampResponse struct {
	Proof   *proof.TimestampProof `json:"proof"`
	Compact string                `json:"compact"`
	Txid    string                `json:"txid"`
	Status  string                `json:"status"`
}

// VerifyRequest accepts either a full JSON proof or a compact zots1 string.
type VerifyRequest struct {
	Proof    string `json:"proof"`
	Original string `json:"original,omitempty"`
}

type VerifyResponse struct {
	Status string         `json:"status"`
	Result *verify.Result `json:"result"`
}

var (
	jwtKey     []byte
	jwtKeyOnce sync.Once
)

// GetJWTKey returns the process-lifetime token signing key. Tokens do not
// survive a restart, clients log in again.
func GetJWTKey() []byte {
	jwtKeyOnce.Do(func() {
		jwtKey = make([]byte, 32)
		if _, err := rand.Read(jwtKey); err != nil {
			panic(err)
		}
	})
	return jwtKey
}
