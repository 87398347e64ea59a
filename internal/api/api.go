package api

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	historydb "github.com/zopentimestamps/zots/internal/database"
	"github.com/zopentimestamps/zots/internal/logger"
	"github.com/zopentimestamps/zots/internal/wallet"
	"github.com/zopentimestamps/zots/lib/proof"
	"github.com/zopentimestamps/zots/lib/verify"
)

type API struct {
	Wallet               *wallet.Client
	Network              proof.Network
	ApiKey               string
	ConfirmationAttempts int
}

func NewAPI(walletClient *wallet.Client, network proof.Network, apiKey string, confirmationAttempts int) *API {
	return &API{
		Wallet:               walletClient,
		Network:              network,
		ApiKey:               apiKey,
		ConfirmationAttempts: confirmationAttempts,
	}
}

// Serve registers the handlers and blocks on ListenAndServe.
func (a *API) Serve(port int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", a.LoggingMiddleware(a.LoginHandler))
	mux.HandleFunc("/api/stamp", a.LoggingMiddleware(a.JWTMiddleware(a.StampHandler)))
	mux.HandleFunc("/api/verify", a.LoggingMiddleware(a.JWTMiddleware(a.VerifyHandler)))
	mux.HandleFunc("/api/history", a.LoggingMiddleware(a.JWTMiddleware(a.HistoryHandler)))
	mux.HandleFunc("/api/wallet/balance", a.LoggingMiddleware(a.JWTMiddleware(a.BalanceHandler)))

	addr := fmt.Sprintf(":%d", port)
	logger.Infof("API listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func (a *API) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if a.ApiKey == "" {
		http.Error(w, "API key authentication not configured", http.StatusInternalServerError)
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.ApiKey), []byte(a.ApiKey)) != 1 {
		http.Error(w, "Unauthorized: invalid API key", http.StatusUnauthorized)
		return
	}

	token, err := GenerateJWT("api-client")
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, LoginResponse{Token: token})
}

func (a *API) StampHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	var req StampRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	algorithm := proof.Sha256
	if req.Algorithm != "" {
		var err error
		algorithm, err = proof.ParseHashAlgorithm(req.Algorithm)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid algorithm: %v", err), http.StatusBadRequest)
			return
		}
	}

	hash, err := proof.HashFromHex(req.Hash, algorithm)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid hash: %v", err), http.StatusBadRequest)
		return
	}

	tx, err := a.Wallet.CreateMemoTransaction(r.Context(), hash)
	if err != nil {
		logger.Errorf("Stamp transaction failed: %v", err)
		http.Error(w, fmt.Sprintf("Failed to create transaction: %v", err), http.StatusBadGateway)
		return
	}

	tp := proof.NewWithAlgorithm(hash, algorithm)
	status := "pending"

	record := &historydb.StampRecord{
		Hash:      hash.Hex(),
		Algorithm: algorithm.Name(),
		Network:   a.Network.Name(),
		Txid:      tx.Txid,
	}
	if err := historydb.SaveStamp(record); err != nil {
		logger.Errorf("Failed to record stamp: %v", err)
	}

	if req.Wait {
		confirmation, err := a.Wallet.WaitConfirmation(r.Context(), tx.Txid, a.ConfirmationAttempts)
		if err != nil {
			logger.Errorf("Confirmation wait failed: %v", err)
		} else {
			txid, err := tx.TxidBytes()
			if err != nil {
				http.Error(w, fmt.Sprintf("Bad txid from wallet: %v", err), http.StatusBadGateway)
				return
			}
			tp.AddAttestation(proof.NewAttestation(a.Network, txid,
				confirmation.BlockHeight, confirmation.BlockTime, 0))
			status = "confirmed"
			if err := historydb.MarkConfirmed(hash.Hex(), tx.Txid,
				confirmation.BlockHeight, confirmation.BlockTime); err != nil {
				logger.Errorf("Failed to mark stamp confirmed: %v", err)
			}
		}
	}

	compact, err := tp.ToCompact()
	if err != nil {
		logger.Errorf("Compact encoding failed: %v", err)
		compact = ""
	}

	writeJSON(w, StampResponse{
		Proof:   tp,
		Compact: compact,
		Txid:    tx.Txid,
		Status:  status,
	})
}

func (a *API) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var tp *proof.TimestampProof
	var err error
	trimmed := strings.TrimSpace(req.Proof)
	if proof.IsCompactFormat(trimmed) {
		tp, err = proof.FromCompact(trimmed)
	} else {
		tp, err = proof.Deserialize([]byte(req.Proof))
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid proof: %v", err), http.StatusBadRequest)
		return
	}

	result, err := verify.Proof(r.Context(), tp, a.Wallet, verify.Options{Original: req.Original})
	if err != nil {
		logger.Errorf("Verification error: %v", err)
	}
	if result == nil {
		http.Error(w, fmt.Sprintf("Verification failed: %v", err), http.StatusBadRequest)
		return
	}

	writeJSON(w, VerifyResponse{
		Status: result.Status.String(),
		Result: result,
	})
}

func (a *API) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := historydb.ListStamps(limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to load history: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, records)
}

func (a *API) BalanceHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	balance, err := a.Wallet.Balance(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to get balance: %v", err), http.StatusBadGateway)
		return
	}

	writeJSON(w, balance)
}

func (a *API) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Infof("%s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
	}
}

func (a *API) JWTMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized: Authorization header missing", http.StatusUnauthorized)
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "Unauthorized: Invalid token format", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return GetJWTKey(), nil
		})

		if err != nil {
			if validationErr, ok := err.(*jwt.ValidationError); ok {
				if validationErr.Errors == jwt.ValidationErrorExpired {
					http.Error(w, "Token expired", http.StatusUnauthorized)
					return
				}
			}
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}

		if !token.Valid {
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func GenerateJWT(userID string) (string, error) {
	expirationTime := time.Now().Add(15 * time.Minute)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(GetJWTKey())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}
