// backend/src/model/user.go
package model

import (
	"database/sql"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID                              int64     `json:"id"`
	Username                        string    `json:"username"`
	Email                           string    `json:"email"`
	Password                        string    `json:"-"`
	AuthProvider                    string    `json:"auth_provider,omitempty"`
	LoginCount                      int       `json:"login_count"`
	LastLoginAt                     NullTime  `json:"last_login_at"`
	LastLoginIP                     string    `json:"last_login_ip"`
	UsdJpyRate                      string    `json:"usd_jpy_rate"` // Free-text JPY-per-USD rate, empty = not configured
	CreatedAt                       time.Time `json:"created_at"`
	UpdatedAt                       time.Time `json:"updated_at"`
	IsEmailVerified                 bool      `json:"is_email_verified"`
	EmailVerificationToken          string    `json:"-"`
	EmailVerificationTokenExpiresAt time.Time `json:"-"`
	PasswordResetToken              string    `json:"-"`
	PasswordResetTokenExpiresAt     time.Time `json:"-"`
	IsAdmin                         bool      `json:"is_admin"`
	MfaSecret                       string    `json:"-"`
	MfaEnabled                      bool      `json:"mfa_enabled"`
}

// NullTime is an alias for sql.NullTime for better JSON handling.
type NullTime sql.NullTime

func (nt NullTime) MarshalJSON() ([]byte, error) {
	if !nt.Valid {
		return []byte("null"), nil
	}
	return nt.Time.MarshalJSON()
}

func (u *User) HashPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

func (u *User) CreateUser(db *sql.DB) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.AuthProvider == "" {
		u.AuthProvider = "local"
	}

	query := `
	INSERT INTO users (username, email, password, auth_provider, is_email_verified,
	                   email_verification_token, email_verification_token_expires_at,
	                   created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	var emailTokenExpiresArg interface{}
	if !u.EmailVerificationTokenExpiresAt.IsZero() {
		emailTokenExpiresArg = u.EmailVerificationTokenExpiresAt
	}

	res, err := stmt.Exec(
		u.Username, u.Email, u.Password, u.AuthProvider, u.IsEmailVerified,
		u.EmailVerificationToken, emailTokenExpiresArg,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

const userColumns = `id, username, email, password, auth_provider, login_count,
       last_login_at, last_login_ip, usd_jpy_rate, is_email_verified,
       email_verification_token, email_verification_token_expires_at,
       password_reset_token, password_reset_token_expires_at,
       created_at, updated_at, mfa_secret, mfa_enabled`

// scanUser maps one users row, normalizing the nullable columns.
func scanUser(row *sql.Row) (*User, error) {
	var user User
	var authProvider, lastLoginIP, usdJpyRate, emailVerificationToken, passwordResetToken, mfaSecret sql.NullString
	var lastLoginAt, emailVerificationTokenExpiresAt, passwordResetTokenExpiresAt sql.NullTime

	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Password, &authProvider,
		&user.LoginCount, &lastLoginAt, &lastLoginIP, &usdJpyRate,
		&user.IsEmailVerified,
		&emailVerificationToken, &emailVerificationTokenExpiresAt,
		&passwordResetToken, &passwordResetTokenExpiresAt,
		&user.CreatedAt, &user.UpdatedAt,
		&mfaSecret, &user.MfaEnabled,
	)
	if err != nil {
		return nil, err
	}

	user.AuthProvider = authProvider.String
	user.LastLoginAt = NullTime(lastLoginAt)
	user.LastLoginIP = lastLoginIP.String
	user.UsdJpyRate = usdJpyRate.String
	user.EmailVerificationToken = emailVerificationToken.String
	user.EmailVerificationTokenExpiresAt = emailVerificationTokenExpiresAt.Time
	user.PasswordResetToken = passwordResetToken.String
	user.PasswordResetTokenExpiresAt = passwordResetTokenExpiresAt.Time
	user.MfaSecret = mfaSecret.String

	return &user, nil
}

func GetUserByID(db *sql.DB, id int64) (*User, error) {
	row := db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func GetUserByUsername(db *sql.DB, username string) (*User, error) {
	row := db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func GetUserByEmail(db *sql.DB, email string) (*User, error) {
	row := db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func GetUserByVerificationToken(db *sql.DB, token string) (*User, error) {
	row := db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email_verification_token = ?`, token)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("invalid or expired verification token")
		}
		return nil, err
	}
	return user, nil
}

func GetUserByPasswordResetToken(db *sql.DB, token string) (*User, error) {
	row := db.QueryRow(`
	SELECT `+userColumns+`
	FROM users
	WHERE password_reset_token = ? AND password_reset_token_expires_at > CURRENT_TIMESTAMP`, token)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("invalid or expired password reset token")
		}
		return nil, err
	}
	return user, nil
}

func (u *User) UpdateUserVerificationStatus(db *sql.DB, isVerified bool) error {
	query := `
	UPDATE users
	SET is_email_verified = ?, email_verification_token = NULL,
	    email_verification_token_expires_at = NULL, updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`
	_, err := db.Exec(query, isVerified, u.ID)
	if err == nil {
		u.IsEmailVerified = isVerified
		u.EmailVerificationToken = ""
	}
	return err
}

func (u *User) UpdateUserVerificationToken(db *sql.DB, token string, expiresAt time.Time) error {
	query := `
	UPDATE users
	SET email_verification_token = ?, email_verification_token_expires_at = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`
	_, err := db.Exec(query, token, expiresAt, u.ID)
	if err == nil {
		u.EmailVerificationToken = token
		u.EmailVerificationTokenExpiresAt = expiresAt
	}
	return err
}

func (u *User) SetPasswordResetToken(db *sql.DB, token string, expiresAt time.Time) error {
	query := `
	UPDATE users
	SET password_reset_token = ?, password_reset_token_expires_at = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`
	_, err := db.Exec(query, token, expiresAt, u.ID)
	if err == nil {
		u.PasswordResetToken = token
		u.PasswordResetTokenExpiresAt = expiresAt
	}
	return err
}

func (u *User) UpdatePassword(db *sql.DB, newPasswordHash string) error {
	query := `
	UPDATE users
	SET password = ?, password_reset_token = NULL, password_reset_token_expires_at = NULL,
	    updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`
	_, err := db.Exec(query, newPasswordHash, u.ID)
	if err == nil {
		u.Password = newPasswordHash
		u.PasswordResetToken = ""
	}
	return err
}

// UpdateUsdJpyRate persists the user's exchange-rate setting. The raw string
// is stored as entered; summary queries decide whether it is usable.
func (u *User) UpdateUsdJpyRate(db *sql.DB, rate string) error {
	query := `UPDATE users SET usd_jpy_rate = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := db.Exec(query, rate, u.ID)
	if err == nil {
		u.UsdJpyRate = rate
	}
	return err
}

func (u *User) UpdateMfaSecret(db *sql.DB, secret string) error {
	query := `UPDATE users SET mfa_secret = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := db.Exec(query, secret, u.ID)
	if err == nil {
		u.MfaSecret = secret
	}
	return err
}

func (u *User) UpdateMfaEnabled(db *sql.DB, enabled bool) error {
	query := `UPDATE users SET mfa_enabled = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := db.Exec(query, enabled, u.ID)
	if err == nil {
		u.MfaEnabled = enabled
	}
	return err
}

// DeleteUser removes the account row; dividends, stocks, sessions and login
// history go with it via ON DELETE CASCADE.
func DeleteUser(db *sql.DB, userID int64) error {
	_, err := db.Exec(`DELETE FROM users WHERE id = ?`, userID)
	return err
}

type Session struct {
	ID           int       `json:"id"`
	UserID       int64     `json:"user_id"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	UserAgent    string    `json:"user_agent"`
	ClientIP     string    `json:"client_ip"`
	IsBlocked    bool      `json:"is_blocked"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func CreateSession(db *sql.DB, session *Session) error {
	query := `
	INSERT INTO sessions (user_id, token, refresh_token, user_agent, client_ip, is_blocked, expires_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := db.Exec(query,
		session.UserID, session.Token, session.RefreshToken,
		session.UserAgent, session.ClientIP, session.IsBlocked, session.ExpiresAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	session.ID = int(id)
	return nil
}

func scanSession(row *sql.Row) (*Session, error) {
	var s Session
	var userAgent, clientIP sql.NullString
	err := row.Scan(
		&s.ID, &s.UserID, &s.Token, &s.RefreshToken,
		&userAgent, &clientIP, &s.IsBlocked, &s.ExpiresAt, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.UserAgent = userAgent.String
	s.ClientIP = clientIP.String
	return &s, nil
}

func GetSessionByToken(db *sql.DB, token string) (*Session, error) {
	row := db.QueryRow(`
	SELECT id, user_id, token, refresh_token, user_agent, client_ip, is_blocked, expires_at, created_at
	FROM sessions
	WHERE token = ? AND is_blocked = 0 AND expires_at > CURRENT_TIMESTAMP`, token)
	return scanSession(row)
}

func GetSessionByRefreshToken(db *sql.DB, refreshToken string) (*Session, error) {
	row := db.QueryRow(`
	SELECT id, user_id, token, refresh_token, user_agent, client_ip, is_blocked, expires_at, created_at
	FROM sessions
	WHERE refresh_token = ? AND is_blocked = 0 AND expires_at > CURRENT_TIMESTAMP`, refreshToken)
	return scanSession(row)
}

func DeleteSessionByToken(db *sql.DB, token string) error {
	_, err := db.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	return err
}

func DeleteSessionByRefreshToken(db *sql.DB, refreshToken string) error {
	_, err := db.Exec(`DELETE FROM sessions WHERE refresh_token = ?`, refreshToken)
	return err
}

func DeleteSessionsByUserID(db *sql.DB, userID int64) error {
	_, err := db.Exec(`DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}
