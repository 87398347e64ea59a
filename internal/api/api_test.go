package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zopentimestamps/zots/lib/proof"
)

func newTestAPI() *API {
	return NewAPI(nil, proof.Testnet, "secret-key", 3)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestLoginHandler(t *testing.T) {
	a := newTestAPI()

	rec := postJSON(t, a.LoginHandler, "/auth/login", LoginRequest{ApiKey: "secret-key"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login with valid key returned %d", rec.Code)
	}

	var resp LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login returned empty token")
	}
}

func TestLoginHandlerRejectsBadKey(t *testing.T) {
	a := newTestAPI()

	rec := postJSON(t, a.LoginHandler, "/auth/login", LoginRequest{ApiKey: "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login with wrong key returned %d, want 401", rec.Code)
	}
}

func TestLoginHandlerRejectsGet(t *testing.T) {
	a := newTestAPI()

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	rec := httptest.NewRecorder()
	a.LoginHandler(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET login returned %d, want 405", rec.Code)
	}
}

func TestJWTMiddleware(t *testing.T) {
	a := newTestAPI()
	protected := a.JWTMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// No header.
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()
	protected(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing header returned %d, want 401", rec.Code)
	}

	// Garbage token.
	req = httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec = httptest.NewRecorder()
	protected(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token returned %d, want 401", rec.Code)
	}

	// Real token.
	token, err := GenerateJWT("test")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	protected(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid token returned %d, want 200", rec.Code)
	}
}

func TestVerifyHandlerPendingProof(t *testing.T) {
	a := newTestAPI()

	hash := proof.Sha256.HashBytes([]byte("api test"))
	tp := proof.New(hash)
	data, err := tp.Serialize()
	if err != nil {
		t.Fatal(err)
	}

	rec := postJSON(t, a.VerifyHandler, "/api/verify", VerifyRequest{Proof: string(data)})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp VerifyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode verify response: %v", err)
	}
	if resp.Status != "pending" {
		t.Errorf("status = %q, want pending", resp.Status)
	}
}

func TestVerifyHandlerRejectsMalformedProof(t *testing.T) {
	a := newTestAPI()

	rec := postJSON(t, a.VerifyHandler, "/api/verify", VerifyRequest{Proof: "not a proof"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed proof returned %d, want 400", rec.Code)
	}
}

func TestStampHandlerRejectsBadHash(t *testing.T) {
	a := newTestAPI()

	rec := postJSON(t, a.StampHandler, "/api/stamp", StampRequest{Hash: "zz"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad hash returned %d, want 400", rec.Code)
	}

	rec = postJSON(t, a.StampHandler, "/api/stamp", StampRequest{
		Hash:      "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		Algorithm: "md5",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad algorithm returned %d, want 400", rec.Code)
	}
}
