// backend/src/handlers/settings_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/username/divilog/backend/src/database"
	"github.com/username/divilog/backend/src/logger"
	"github.com/username/divilog/backend/src/model"
	"github.com/username/divilog/backend/src/utils"
)

// SettingsHandler serves the per-user preferences. The only setting today
// is the USD/JPY exchange rate used by the summary endpoints. The rate is
// read per request at summary time, so no caches need invalidation here.
type SettingsHandler struct{}

func NewSettingsHandler() *SettingsHandler {
	return &SettingsHandler{}
}

func (h *SettingsHandler) HandleGetExchangeRate(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	user, err := model.GetUserByID(database.DB, userID)
	if err != nil {
		logger.L.Error("Failed to load user for exchange rate read", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to retrieve settings", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, map[string]string{"usd_jpy_rate": user.UsdJpyRate}, http.StatusOK)
}

func (h *SettingsHandler) HandleUpdateExchangeRate(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req struct {
		UsdJpyRate string `json:"usd_jpy_rate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// The rate is stored as entered, empty included. Whether it is usable
	// for conversion is decided at summary time, not here.
	rate := strings.TrimSpace(req.UsdJpyRate)
	if len(rate) > 16 {
		utils.SendJSONError(w, "Exchange rate value is too long", http.StatusBadRequest)
		return
	}

	user, err := model.GetUserByID(database.DB, userID)
	if err != nil {
		logger.L.Error("Failed to load user for exchange rate update", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to update settings", http.StatusInternalServerError)
		return
	}

	if err := user.UpdateUsdJpyRate(database.DB, rate); err != nil {
		logger.L.Error("Failed to update exchange rate", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to update settings", http.StatusInternalServerError)
		return
	}

	logger.L.Info("Exchange rate updated", "userID", userID)
	utils.SendJSON(w, map[string]string{"usd_jpy_rate": rate}, http.StatusOK)
}
