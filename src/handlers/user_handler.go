// backend/src/handlers/user_handler.go

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/username/divilog/backend/src/config"
	"github.com/username/divilog/backend/src/database"
	"github.com/username/divilog/backend/src/logger"
	"github.com/username/divilog/backend/src/model"
	"github.com/username/divilog/backend/src/security"
	"github.com/username/divilog/backend/src/services"
	"github.com/username/divilog/backend/src/utils"
	"golang.org/x/oauth2"
)

type contextKey string

const userIDContextKey contextKey = "userID"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
var passwordRegex = regexp.MustCompile(`^.{6,}$`)

var googleOauthConfig *oauth2.Config

type UserHandler struct {
	authService     *security.AuthService
	emailService    services.EmailService
	dividendService services.DividendService
	mfaService      *services.MFAService
}

func NewUserHandler(
	authService *security.AuthService,
	emailService services.EmailService,
	dividendService services.DividendService,
	mfaService *services.MFAService,
) *UserHandler {
	return &UserHandler{
		authService:     authService,
		emailService:    emailService,
		dividendService: dividendService,
		mfaService:      mfaService,
	}
}

// sendJSONError delegates to utils.SendJSONError so every handler in this
// package emits the same error envelope from one place.
func sendJSONError(w http.ResponseWriter, message string, statusCode int) {
	utils.SendJSONError(w, message, statusCode)
}

func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	return userID, ok
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (h *UserHandler) VerifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		sendJSONError(w, "Verification token is missing", http.StatusBadRequest)
		return
	}

	user, err := model.GetUserByVerificationToken(database.DB, token)
	if err != nil {
		logger.L.Warn("Verification token lookup failed", "tokenPrefix", token[:min(10, len(token))], "error", err)
		sendJSONError(w, "Invalid or expired verification token.", http.StatusBadRequest)
		return
	}

	if user.IsEmailVerified {
		logger.L.Info("Email already verified", "userID", user.ID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Email already verified. You can log in."})
		return
	}

	if time.Now().After(user.EmailVerificationTokenExpiresAt) {
		logger.L.Warn("Verification token expired", "userID", user.ID, "tokenExpiry", user.EmailVerificationTokenExpiresAt)
		sendJSONError(w, "Verification token has expired. Please request a new one.", http.StatusBadRequest)
		return
	}

	if err := user.UpdateUserVerificationStatus(database.DB, true); err != nil {
		logger.L.Error("Failed to update user verification status in DB", "userID", user.ID, "error", err)
		sendJSONError(w, "Failed to verify email. Please try again or contact support.", http.StatusInternalServerError)
		return
	}

	logger.L.Info("Email verified successfully", "userID", user.ID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Email verified successfully! You can now log in."})
}

func (h *UserHandler) HandleCheckUserData(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	hasData, err := h.dividendService.HasData(userID)
	if err != nil {
		logger.L.Error("Failed to check user data", "userID", userID, "error", err)
		sendJSONError(w, "Failed to check user data", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"has_data": hasData})
}

func (h *UserHandler) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := model.GetUserByID(database.DB, userID)
	if err != nil {
		sendJSONError(w, "User not found", http.StatusNotFound)
		return
	}

	// Local accounts must confirm with their password; Google accounts have none.
	if user.AuthProvider == "local" {
		if err := user.CheckPassword(req.Password); err != nil {
			logger.L.Warn("Account deletion rejected: password mismatch", "userID", userID)
			sendJSONError(w, "Incorrect password", http.StatusForbidden)
			return
		}
	}

	if err := model.DeleteUser(database.DB, userID); err != nil {
		logger.L.Error("Failed to delete account", "userID", userID, "error", err)
		sendJSONError(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}

	h.dividendService.InvalidateUserCache(userID)
	logger.L.Info("Account deleted", "userID", userID)
	w.WriteHeader(http.StatusNoContent)
}

// --- ADMIN FUNCTIONS ---

func (h *UserHandler) AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		if !ok {
			sendJSONError(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		user, err := model.GetUserByID(database.DB, userID)
		if err != nil {
			sendJSONError(w, "User not found", http.StatusNotFound)
			return
		}

		isUserAdmin := false
		for _, adminEmail := range config.Cfg.AdminEmails {
			if strings.EqualFold(user.Email, adminEmail) {
				isUserAdmin = true
				break
			}
		}

		if !isUserAdmin {
			logger.L.Warn("Admin access denied for user", "userID", user.ID)
			sendJSONError(w, "Forbidden: Administrator access required", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *UserHandler) HandleGenerateMfaSecret(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	user, err := model.GetUserByID(database.DB, userID)
	if err != nil {
		sendJSONError(w, "User not found", http.StatusNotFound)
		return
	}

	secret, qrCode, err := h.mfaService.GenerateMFASecret(user.Username)
	if err != nil {
		logger.L.Error("Failed to generate MFA secret", "userID", userID, "error", err)
		sendJSONError(w, "Failed to generate MFA secret", http.StatusInternalServerError)
		return
	}

	if err := user.UpdateMfaSecret(database.DB, secret); err != nil {
		logger.L.Error("Failed to store MFA secret", "userID", userID, "error", err)
		sendJSONError(w, "Failed to store MFA secret", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"secret":  secret,
		"qr_code": qrCode,
	})
}

func (h *UserHandler) HandleEnableMfa(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := model.GetUserByID(database.DB, userID)
	if err != nil {
		sendJSONError(w, "User not found", http.StatusNotFound)
		return
	}

	if user.MfaSecret == "" {
		sendJSONError(w, "MFA secret not generated yet", http.StatusBadRequest)
		return
	}

	if !h.mfaService.ValidateToken(user.MfaSecret, req.Code) {
		logger.L.Warn("MFA activation code rejected", "userID", userID)
		sendJSONError(w, "Invalid MFA code", http.StatusForbidden)
		return
	}

	if err := user.UpdateMfaEnabled(database.DB, true); err != nil {
		logger.L.Error("Failed to enable MFA", "userID", userID, "error", err)
		sendJSONError(w, "Failed to enable MFA", http.StatusInternalServerError)
		return
	}

	logger.L.Info("MFA enabled", "userID", userID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "MFA enabled successfully."})
}
