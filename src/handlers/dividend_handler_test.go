package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/divilog/backend/src/logger"
	"github.com/username/divilog/backend/src/models"
	"github.com/username/divilog/backend/src/processors"
	"github.com/username/divilog/backend/src/services"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

// fakeDividendStore overrides the calls the handlers under test make;
// anything else panics via the embedded nil interface.
type fakeDividendStore struct {
	services.DividendService
	dividends []models.Dividend
	created   *models.Dividend
}

func (f *fakeDividendStore) ListDividends(userID int64) ([]models.Dividend, error) {
	return f.dividends, nil
}

func (f *fakeDividendStore) CreateDividend(d *models.Dividend) error {
	d.ID = 42
	f.created = d
	return nil
}

func (f *fakeDividendStore) DeleteDividend(userID, dividendID int64) error {
	for _, d := range f.dividends {
		if d.ID == dividendID && d.UserID == userID {
			return nil
		}
	}
	return services.ErrNotFound
}

type fakeSummaries struct {
	services.SummaryService
	lastYear  int
	lastMonth time.Month
	result    *models.SummaryResult
}

func (f *fakeSummaries) MonthlySummary(userID int64, year int, month time.Month) (*models.SummaryResult, error) {
	f.lastYear = year
	f.lastMonth = month
	return f.result, nil
}

func authedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(r.Context(), userIDContextKey, int64(1))
	return r.WithContext(ctx)
}

func TestHandleMonthlySummaryRequiresAuth(t *testing.T) {
	h := NewDividendHandler(&fakeDividendStore{}, &fakeSummaries{}, processors.NewDividendProcessor())

	w := httptest.NewRecorder()
	h.HandleMonthlySummary(w, httptest.NewRequest("GET", "/api/dividends/summary/monthly?year=2024&month=2", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleMonthlySummaryRequiresYearAndMonth(t *testing.T) {
	h := NewDividendHandler(&fakeDividendStore{}, &fakeSummaries{}, processors.NewDividendProcessor())

	for _, target := range []string{
		"/api/dividends/summary/monthly",
		"/api/dividends/summary/monthly?year=2024",
		"/api/dividends/summary/monthly?year=2024&month=13",
		"/api/dividends/summary/monthly?year=abc&month=2",
	} {
		w := httptest.NewRecorder()
		h.HandleMonthlySummary(w, authedRequest(t, "GET", target, ""))
		assert.Equal(t, http.StatusBadRequest, w.Code, "target: %s", target)
	}
}

func TestHandleMonthlySummaryReturnsPayload(t *testing.T) {
	converted := 1500.0
	grand := 1650.0
	summaries := &fakeSummaries{result: &models.SummaryResult{
		Japan:        150,
		Usa:          10,
		Balance:      160,
		ConvertedJpy: &converted,
		GrandTotal:   &grand,
	}}
	h := NewDividendHandler(&fakeDividendStore{}, summaries, processors.NewDividendProcessor())

	w := httptest.NewRecorder()
	h.HandleMonthlySummary(w, authedRequest(t, "GET", "/api/dividends/summary/monthly?year=2024&month=2", ""))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2024, summaries.lastYear)
	assert.Equal(t, time.February, summaries.lastMonth)

	var payload models.SummaryResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&payload))
	assert.Equal(t, 150.0, payload.Japan)
	assert.Equal(t, 10.0, payload.Usa)
	require.NotNil(t, payload.GrandTotal)
	assert.Equal(t, 1650.0, *payload.GrandTotal)
}

func TestHandleCreateDividendRejectsInvalidPayload(t *testing.T) {
	store := &fakeDividendStore{}
	h := NewDividendHandler(store, &fakeSummaries{}, processors.NewDividendProcessor())

	cases := map[string]string{
		"bad date":      `{"stock_name":"VZ","type":"usa","amount":"10","date":"2024-02-30"}`,
		"bad type":      `{"stock_name":"VZ","type":"europe","amount":"10","date":"2024-02-01"}`,
		"empty name":    `{"stock_name":" ","type":"usa","amount":"10","date":"2024-02-01"}`,
		"bad amount":    `{"stock_name":"VZ","type":"usa","amount":"ten","date":"2024-02-01"}`,
		"negative":      `{"stock_name":"VZ","type":"usa","amount":"-5","date":"2024-02-01"}`,
		"nan":           `{"stock_name":"VZ","type":"usa","amount":"NaN","date":"2024-02-01"}`,
		"infinite":      `{"stock_name":"VZ","type":"usa","amount":"+Inf","date":"2024-02-01"}`,
		"not even json": `{`,
	}
	for name, body := range cases {
		w := httptest.NewRecorder()
		h.HandleCreateDividend(w, authedRequest(t, "POST", "/api/dividends", body))
		assert.Equal(t, http.StatusBadRequest, w.Code, "case: %s", name)
	}
	assert.Nil(t, store.created)
}

func TestHandleCreateDividendPersistsForUser(t *testing.T) {
	store := &fakeDividendStore{}
	h := NewDividendHandler(store, &fakeSummaries{}, processors.NewDividendProcessor())

	body := `{"stock_name":"  Mitsubishi Corp ","type":"japan","amount":"1200","date":"2024-02-15","memo":"interim"}`
	w := httptest.NewRecorder()
	h.HandleCreateDividend(w, authedRequest(t, "POST", "/api/dividends", body))

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, store.created)
	assert.Equal(t, int64(1), store.created.UserID)
	assert.Equal(t, "Mitsubishi Corp", store.created.StockName)
	assert.Equal(t, models.CurrencyJapan, store.created.Type)

	var payload models.Dividend
	require.NoError(t, json.NewDecoder(w.Body).Decode(&payload))
	assert.Equal(t, int64(42), payload.ID)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestHandleDeleteDividendScopedToOwner(t *testing.T) {
	store := &fakeDividendStore{dividends: []models.Dividend{
		{ID: 7, UserID: 1, StockName: "VZ", Type: models.CurrencyUsa, Amount: "12.5", Date: "2024-02-15"},
		{ID: 8, UserID: 2, StockName: "MMM", Type: models.CurrencyUsa, Amount: "5", Date: "2024-02-15"},
	}}
	h := NewDividendHandler(store, &fakeSummaries{}, processors.NewDividendProcessor())

	// Someone else's record looks exactly like a missing one.
	w := httptest.NewRecorder()
	r := withURLParam(authedRequest(t, "DELETE", "/api/dividends/8", ""), "dividendID", "8")
	h.HandleDeleteDividend(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r = withURLParam(authedRequest(t, "DELETE", "/api/dividends/7", ""), "dividendID", "7")
	h.HandleDeleteDividend(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHandleListDividendsMonthFilter(t *testing.T) {
	store := &fakeDividendStore{dividends: []models.Dividend{
		{ID: 1, StockName: "Mitsubishi Corp", Type: models.CurrencyJapan, Amount: "1200", Date: "2024-02-15"},
		{ID: 2, StockName: "VZ", Type: models.CurrencyUsa, Amount: "12.5", Date: "2024-03-01"},
	}}
	h := NewDividendHandler(store, &fakeSummaries{}, processors.NewDividendProcessor())

	w := httptest.NewRecorder()
	h.HandleListDividends(w, authedRequest(t, "GET", "/api/dividends?year=2024&month=2", ""))
	require.Equal(t, http.StatusOK, w.Code)

	var filtered []models.Dividend
	require.NoError(t, json.NewDecoder(w.Body).Decode(&filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(1), filtered[0].ID)

	// Without the filter the whole history comes back.
	w = httptest.NewRecorder()
	h.HandleListDividends(w, authedRequest(t, "GET", "/api/dividends", ""))
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.Dividend
	require.NoError(t, json.NewDecoder(w.Body).Decode(&all))
	assert.Len(t, all, 2)
}

func TestHandleStockBreakdownRejectsUnknownType(t *testing.T) {
	h := NewDividendHandler(&fakeDividendStore{}, &fakeSummaries{}, processors.NewDividendProcessor())

	w := httptest.NewRecorder()
	h.HandleStockBreakdown(w, authedRequest(t, "GET", "/api/dividends/summary/stocks?year=2024&month=2&type=europe", ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
