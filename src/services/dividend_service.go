// backend/src/services/dividend_service.go
package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/divilog/backend/src/logger"
	"github.com/username/divilog/backend/src/models"
)

const (
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

// dividendServiceImpl implements DividendService over the SQLite store.
type dividendServiceImpl struct {
	db            *sql.DB
	snapshotCache *cache.Cache
}

func NewDividendService(db *sql.DB, snapshotCache *cache.Cache) DividendService {
	return &dividendServiceImpl{
		db:            db,
		snapshotCache: snapshotCache,
	}
}

func dividendsCacheKey(userID int64) string {
	return fmt.Sprintf("dividends_%d", userID)
}

func stocksCacheKey(userID int64) string {
	return fmt.Sprintf("stocks_%d", userID)
}

func (s *dividendServiceImpl) InvalidateUserCache(userID int64) {
	s.snapshotCache.Delete(dividendsCacheKey(userID))
	s.snapshotCache.Delete(stocksCacheKey(userID))
	logger.L.Debug("Invalidated snapshot cache", "userID", userID)
}

func (s *dividendServiceImpl) ListDividends(userID int64) ([]models.Dividend, error) {
	cacheKey := dividendsCacheKey(userID)
	if cached, found := s.snapshotCache.Get(cacheKey); found {
		if dividends, ok := cached.([]models.Dividend); ok {
			return dividends, nil
		}
	}

	rows, err := s.db.Query(`
		SELECT id, user_id, stock_name, type, amount, date, memo
		FROM dividends
		WHERE user_id = ?
		ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying dividends for user %d: %w", userID, err)
	}
	defer rows.Close()

	var dividends []models.Dividend
	for rows.Next() {
		var d models.Dividend
		if err := rows.Scan(&d.ID, &d.UserID, &d.StockName, &d.Type, &d.Amount, &d.Date, &d.Memo); err != nil {
			return nil, fmt.Errorf("scanning dividend row: %w", err)
		}
		dividends = append(dividends, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dividend rows: %w", err)
	}
	if dividends == nil {
		dividends = []models.Dividend{}
	}

	s.snapshotCache.Set(cacheKey, dividends, DefaultCacheExpiration)
	return dividends, nil
}

func (s *dividendServiceImpl) CreateDividend(dividend *models.Dividend) error {
	res, err := s.db.Exec(`
		INSERT INTO dividends (user_id, stock_name, type, amount, date, memo)
		VALUES (?, ?, ?, ?, ?, ?)`,
		dividend.UserID, dividend.StockName, dividend.Type, dividend.Amount, dividend.Date, dividend.Memo,
	)
	if err != nil {
		return fmt.Errorf("inserting dividend: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	dividend.ID = id

	s.InvalidateUserCache(dividend.UserID)
	return nil
}

func (s *dividendServiceImpl) UpdateDividend(dividend *models.Dividend) error {
	res, err := s.db.Exec(`
		UPDATE dividends
		SET stock_name = ?, type = ?, amount = ?, date = ?, memo = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`,
		dividend.StockName, dividend.Type, dividend.Amount, dividend.Date, dividend.Memo,
		dividend.ID, dividend.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating dividend %d: %w", dividend.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.InvalidateUserCache(dividend.UserID)
	return nil
}

func (s *dividendServiceImpl) DeleteDividend(userID, dividendID int64) error {
	res, err := s.db.Exec(`DELETE FROM dividends WHERE id = ? AND user_id = ?`, dividendID, userID)
	if err != nil {
		return fmt.Errorf("deleting dividend %d: %w", dividendID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.InvalidateUserCache(userID)
	return nil
}

func (s *dividendServiceImpl) ListStocks(userID int64) ([]models.Stock, error) {
	cacheKey := stocksCacheKey(userID)
	if cached, found := s.snapshotCache.Get(cacheKey); found {
		if stocks, ok := cached.([]models.Stock); ok {
			return stocks, nil
		}
	}

	rows, err := s.db.Query(`
		SELECT id, user_id, type, code, name
		FROM stocks
		WHERE user_id = ?
		ORDER BY type ASC, code ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying stocks for user %d: %w", userID, err)
	}
	defer rows.Close()

	var stocks []models.Stock
	for rows.Next() {
		var st models.Stock
		if err := rows.Scan(&st.ID, &st.UserID, &st.Type, &st.Code, &st.Name); err != nil {
			return nil, fmt.Errorf("scanning stock row: %w", err)
		}
		stocks = append(stocks, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stock rows: %w", err)
	}
	if stocks == nil {
		stocks = []models.Stock{}
	}

	s.snapshotCache.Set(cacheKey, stocks, DefaultCacheExpiration)
	return stocks, nil
}

func (s *dividendServiceImpl) CreateStock(stock *models.Stock) error {
	res, err := s.db.Exec(`
		INSERT INTO stocks (user_id, type, code, name)
		VALUES (?, ?, ?, ?)`,
		stock.UserID, stock.Type, stock.Code, stock.Name,
	)
	if err != nil {
		// The (user_id, type, code) unique index is the only constraint on
		// this insert that a valid payload can hit.
		if isUniqueViolation(err) {
			return ErrDuplicateRow
		}
		return fmt.Errorf("inserting stock: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stock.ID = id

	s.InvalidateUserCache(stock.UserID)
	return nil
}

func (s *dividendServiceImpl) UpdateStock(stock *models.Stock) error {
	res, err := s.db.Exec(`
		UPDATE stocks
		SET type = ?, code = ?, name = ?
		WHERE id = ? AND user_id = ?`,
		stock.Type, stock.Code, stock.Name, stock.ID, stock.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRow
		}
		return fmt.Errorf("updating stock %d: %w", stock.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.InvalidateUserCache(stock.UserID)
	return nil
}

func (s *dividendServiceImpl) DeleteStock(userID, stockID int64) error {
	res, err := s.db.Exec(`DELETE FROM stocks WHERE id = ? AND user_id = ?`, stockID, userID)
	if err != nil {
		return fmt.Errorf("deleting stock %d: %w", stockID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.InvalidateUserCache(userID)
	return nil
}

func (s *dividendServiceImpl) HasData(userID int64) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM dividends WHERE user_id = ?`, userID).Scan(&count)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	err = s.db.QueryRow(`SELECT COUNT(*) FROM stocks WHERE user_id = ?`, userID).Scan(&count)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}
	return count > 0, nil
}

// isUniqueViolation detects SQLite unique-constraint failures without
// importing driver internals.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
