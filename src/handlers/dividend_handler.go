package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/username/divilog/backend/src/logger"
	"github.com/username/divilog/backend/src/models"
	"github.com/username/divilog/backend/src/processors"
	"github.com/username/divilog/backend/src/security/validation"
	"github.com/username/divilog/backend/src/services"
	"github.com/username/divilog/backend/src/utils"
)

type DividendHandler struct {
	dividendService   services.DividendService
	summaryService    services.SummaryService
	dividendProcessor processors.DividendProcessor
}

func NewDividendHandler(
	dividendService services.DividendService,
	summaryService services.SummaryService,
	dividendProcessor processors.DividendProcessor,
) *DividendHandler {
	return &DividendHandler{
		dividendService:   dividendService,
		summaryService:    summaryService,
		dividendProcessor: dividendProcessor,
	}
}

// parseYearMonth reads the year/month query params shared by the monthly
// summary endpoints. Both are required.
func parseYearMonth(r *http.Request) (int, time.Month, error) {
	yearStr := r.URL.Query().Get("year")
	monthStr := r.URL.Query().Get("month")
	if yearStr == "" || monthStr == "" {
		return 0, 0, errors.New("year and month query parameters are required")
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1 || year > 9999 {
		return 0, 0, errors.New("invalid year")
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, errors.New("invalid month")
	}
	return year, time.Month(month), nil
}

func (h *DividendHandler) HandleListDividends(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	dividends, err := h.dividendService.ListDividends(userID)
	if err != nil {
		logger.L.Error("Error listing dividends", "userID", userID, "error", err)
		utils.SendJSONError(w, "Error retrieving dividends", http.StatusInternalServerError)
		return
	}

	// Optional month filter; without it the whole history is returned.
	if r.URL.Query().Get("year") != "" || r.URL.Query().Get("month") != "" {
		year, month, err := parseYearMonth(r)
		if err != nil {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		dividends = h.dividendProcessor.FilterByMonth(dividends, year, month)
	}

	if dividends == nil {
		dividends = []models.Dividend{}
	}

	utils.SendJSON(w, dividends, http.StatusOK)
}

func (h *DividendHandler) HandleCreateDividend(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var dividend models.Dividend
	if err := json.NewDecoder(r.Body).Decode(&dividend); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	dividend.StockName = validation.SanitizeText(strings.TrimSpace(dividend.StockName))
	dividend.Amount = strings.TrimSpace(dividend.Amount)
	dividend.Date = strings.TrimSpace(dividend.Date)
	dividend.Memo = validation.SanitizeText(strings.TrimSpace(dividend.Memo))

	if err := validation.ValidateDividend(&dividend); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	dividend.UserID = userID
	if err := h.dividendService.CreateDividend(&dividend); err != nil {
		logger.L.Error("Error creating dividend", "userID", userID, "error", err)
		utils.SendJSONError(w, "Error creating dividend", http.StatusInternalServerError)
		return
	}

	logger.L.Info("Dividend created", "userID", userID, "dividendID", dividend.ID)
	utils.SendJSON(w, dividend, http.StatusCreated)
}

func (h *DividendHandler) HandleUpdateDividend(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	dividendID, err := strconv.ParseInt(chi.URLParam(r, "dividendID"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid dividend ID", http.StatusBadRequest)
		return
	}

	var dividend models.Dividend
	if err := json.NewDecoder(r.Body).Decode(&dividend); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	dividend.StockName = validation.SanitizeText(strings.TrimSpace(dividend.StockName))
	dividend.Amount = strings.TrimSpace(dividend.Amount)
	dividend.Date = strings.TrimSpace(dividend.Date)
	dividend.Memo = validation.SanitizeText(strings.TrimSpace(dividend.Memo))

	if err := validation.ValidateDividend(&dividend); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	dividend.ID = dividendID
	dividend.UserID = userID
	if err := h.dividendService.UpdateDividend(&dividend); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(w, "Dividend not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Error updating dividend", "userID", userID, "dividendID", dividendID, "error", err)
		utils.SendJSONError(w, "Error updating dividend", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, dividend, http.StatusOK)
}

func (h *DividendHandler) HandleDeleteDividend(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	dividendID, err := strconv.ParseInt(chi.URLParam(r, "dividendID"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid dividend ID", http.StatusBadRequest)
		return
	}

	if err := h.dividendService.DeleteDividend(userID, dividendID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(w, "Dividend not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Error deleting dividend", "userID", userID, "dividendID", dividendID, "error", err)
		utils.SendJSONError(w, "Error deleting dividend", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Summary endpoints ---

func (h *DividendHandler) HandleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	year, month, err := parseYearMonth(r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.L.Info("Handling MonthlySummary", "userID", userID, "year", year, "month", int(month))

	summary, err := h.summaryService.MonthlySummary(userID, year, month)
	if err != nil {
		logger.L.Error("Error retrieving monthly summary", "userID", userID, "error", err)
		utils.SendJSONError(w, "Error retrieving summary", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, summary, http.StatusOK)
}

func (h *DividendHandler) HandleTotalSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	summary, err := h.summaryService.TotalSummary(userID)
	if err != nil {
		logger.L.Error("Error retrieving total summary", "userID", userID, "error", err)
		utils.SendJSONError(w, "Error retrieving summary", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, summary, http.StatusOK)
}

func (h *DividendHandler) HandleDailyBreakdown(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	date := r.URL.Query().Get("date")
	if _, err := validation.ValidateISODate(date, "date"); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	breakdown, err := h.summaryService.DailyBreakdown(userID, date)
	if err != nil {
		logger.L.Error("Error retrieving daily breakdown", "userID", userID, "date", date, "error", err)
		utils.SendJSONError(w, "Error retrieving breakdown", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, breakdown, http.StatusOK)
}

func (h *DividendHandler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	year, month, err := parseYearMonth(r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	calendar, err := h.summaryService.Calendar(userID, year, month)
	if err != nil {
		logger.L.Error("Error retrieving calendar", "userID", userID, "error", err)
		utils.SendJSONError(w, "Error retrieving calendar", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, calendar, http.StatusOK)
}

func (h *DividendHandler) HandleStockBreakdown(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	year, month, err := parseYearMonth(r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	class := models.CurrencyClass(r.URL.Query().Get("type"))
	if err := validation.ValidateCurrencyClass(class); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	breakdown, err := h.summaryService.StockBreakdown(userID, year, month, class)
	if err != nil {
		logger.L.Error("Error retrieving stock breakdown", "userID", userID, "error", err)
		utils.SendJSONError(w, "Error retrieving breakdown", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, breakdown, http.StatusOK)
}
