package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RefreshTTL    = 30 * 24 * time.Hour
	RefreshCookie = "rt"
)

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func newTokenResponse(access string) TokenResponse {
	return TokenResponse{AccessToken: access, TokenType: "Bearer", ExpiresIn: int(AccessTTL.Seconds())}
}

func genRaw() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashRaw(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return base64.RawURLEncoding.EncodeToString(h[:])
}

// Plain http on localhost needs Secure=false; set COOKIE_SECURE=true behind https.
func cookieSecure() bool {
	return os.Getenv("COOKIE_SECURE") == "true"
}

func setRTCookie(w http.ResponseWriter, raw string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    raw,
		Path:     "/auth", // covers /auth/refresh and /auth/logout
		HttpOnly: true,
		Secure:   cookieSecure(),
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

func clearRTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    "",
		Path:     "/auth",
		HttpOnly: true,
		Secure:   cookieSecure(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func storeRefresh(db *gorm.DB, w http.ResponseWriter, brokerID uint, isAdmin bool, family string) error {
	raw, err := genRaw()
	if err != nil {
		return err
	}
	rt := RefreshToken{
		BrokerID:  brokerID,
		FamilyID:  family,
		Hash:      hashRaw(raw),
		IsAdmin:   isAdmin,
		ExpiresAt: time.Now().Add(RefreshTTL),
	}
	if err := db.Create(&rt).Error; err != nil {
		return err
	}
	setRTCookie(w, raw, rt.ExpiresAt)
	return nil
}

// IssueTokensOnLogin starts a new refresh family, sets its cookie and
// returns the access token. Call it after the password check.
func IssueTokensOnLogin(db *gorm.DB, w http.ResponseWriter, brokerID uint, isAdmin bool) (TokenResponse, error) {
	access, err := GenerateAccessToken(brokerID, isAdmin)
	if err != nil {
		return TokenResponse{}, err
	}
	if err := storeRefresh(db, w, brokerID, isAdmin, uuid.NewString()); err != nil {
		return TokenResponse{}, err
	}
	return newTokenResponse(access), nil
}

// RefreshHTTPHandler rotates the refresh cookie. Presenting an already revoked
// token revokes the whole family.
//
// POST /auth/refresh
func RefreshHTTPHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(RefreshCookie)
		if err != nil || c.Value == "" {
			http.Error(w, "no refresh", http.StatusUnauthorized)
			return
		}

		var cur RefreshToken
		if err := db.Where("hash = ?", hashRaw(c.Value)).First(&cur).Error; err != nil {
			clearRTCookie(w)
			http.Error(w, "invalid refresh", http.StatusUnauthorized)
			return
		}
		now := time.Now()
		if cur.RevokedAt != nil {
			log.Printf("[auth] refresh reuse detected broker=%d family=%s", cur.BrokerID, cur.FamilyID)
			_ = db.Model(&RefreshToken{}).
				Where("family_id = ? AND revoked_at IS NULL", cur.FamilyID).
				Update("revoked_at", &now).Error
			clearRTCookie(w)
			http.Error(w, "invalid refresh", http.StatusUnauthorized)
			return
		}
		if now.After(cur.ExpiresAt) {
			clearRTCookie(w)
			http.Error(w, "expired refresh", http.StatusUnauthorized)
			return
		}

		_ = db.Model(&cur).Update("revoked_at", &now).Error

		access, err := GenerateAccessToken(cur.BrokerID, cur.IsAdmin)
		if err != nil {
			clearRTCookie(w)
			http.Error(w, "error", http.StatusInternalServerError)
			return
		}
		if err := storeRefresh(db, w, cur.BrokerID, cur.IsAdmin, cur.FamilyID); err != nil {
			clearRTCookie(w)
			http.Error(w, "error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(newTokenResponse(access))
	}
}

// POST /auth/logout
func LogoutHTTPHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(RefreshCookie); err == nil && c.Value != "" {
			now := time.Now()
			_ = db.Model(&RefreshToken{}).Where("hash = ?", hashRaw(c.Value)).Update("revoked_at", &now).Error
		}
		clearRTCookie(w)
		w.WriteHeader(http.StatusNoContent)
	}
}
