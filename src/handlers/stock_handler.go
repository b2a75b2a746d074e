package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/username/divilog/backend/src/logger"
	"github.com/username/divilog/backend/src/models"
	"github.com/username/divilog/backend/src/security/validation"
	"github.com/username/divilog/backend/src/services"
	"github.com/username/divilog/backend/src/utils"
)

type StockHandler struct {
	dividendService services.DividendService
}

func NewStockHandler(dividendService services.DividendService) *StockHandler {
	return &StockHandler{dividendService: dividendService}
}

func (h *StockHandler) HandleListStocks(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	stocks, err := h.dividendService.ListStocks(userID)
	if err != nil {
		logger.L.Error("Error listing stocks", "userID", userID, "error", err)
		utils.SendJSONError(w, "Error retrieving stocks", http.StatusInternalServerError)
		return
	}
	if stocks == nil {
		stocks = []models.Stock{}
	}

	utils.SendJSON(w, stocks, http.StatusOK)
}

func (h *StockHandler) HandleCreateStock(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var stock models.Stock
	if err := json.NewDecoder(r.Body).Decode(&stock); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	stock.Code = strings.TrimSpace(stock.Code)
	stock.Name = validation.SanitizeText(strings.TrimSpace(stock.Name))

	if err := validation.ValidateStock(&stock); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	stock.UserID = userID
	if err := h.dividendService.CreateStock(&stock); err != nil {
		if errors.Is(err, services.ErrDuplicateRow) {
			utils.SendJSONError(w, "A stock with this code already exists", http.StatusConflict)
			return
		}
		logger.L.Error("Error creating stock", "userID", userID, "error", err)
		utils.SendJSONError(w, "Error creating stock", http.StatusInternalServerError)
		return
	}

	logger.L.Info("Stock created", "userID", userID, "stockID", stock.ID)
	utils.SendJSON(w, stock, http.StatusCreated)
}

func (h *StockHandler) HandleUpdateStock(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	stockID, err := strconv.ParseInt(chi.URLParam(r, "stockID"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid stock ID", http.StatusBadRequest)
		return
	}

	var stock models.Stock
	if err := json.NewDecoder(r.Body).Decode(&stock); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	stock.Code = strings.TrimSpace(stock.Code)
	stock.Name = validation.SanitizeText(strings.TrimSpace(stock.Name))

	if err := validation.ValidateStock(&stock); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	stock.ID = stockID
	stock.UserID = userID
	if err := h.dividendService.UpdateStock(&stock); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(w, "Stock not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, services.ErrDuplicateRow) {
			utils.SendJSONError(w, "A stock with this code already exists", http.StatusConflict)
			return
		}
		logger.L.Error("Error updating stock", "userID", userID, "stockID", stockID, "error", err)
		utils.SendJSONError(w, "Error updating stock", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, stock, http.StatusOK)
}

func (h *StockHandler) HandleDeleteStock(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	stockID, err := strconv.ParseInt(chi.URLParam(r, "stockID"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid stock ID", http.StatusBadRequest)
		return
	}

	if err := h.dividendService.DeleteStock(userID, stockID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(w, "Stock not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Error deleting stock", "userID", userID, "stockID", stockID, "error", err)
		utils.SendJSONError(w, "Error deleting stock", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
