package usecase

import (
	"errors"
	"time"

	"mkc-office-backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

func (t *TokenIssuer) Issue(s model.Session, now time.Time) (string, time.Time, error) {
	expires := now.Add(t.ttl)
	claims := jwt.MapClaims{
		"user_id": s.UserID,
		"name":    s.Name,
		"role":    s.Role,
		"iat":     now.Unix(),
		"exp":     expires.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	return signed, expires, err
}

// Parse validates the token and returns the session it carries along with its expiry.
func (t *TokenIssuer) Parse(tokenString string) (model.Session, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthorized
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return model.Session{}, time.Time{}, ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.Session{}, time.Time{}, ErrUnauthorized
	}

	uid, _ := claims["user_id"].(float64)
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	if uid <= 0 || !model.IsValidRole(role) {
		return model.Session{}, time.Time{}, errors.Join(ErrUnauthorized, errors.New("malformed claims"))
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return model.Session{}, time.Time{}, ErrUnauthorized
	}

	return model.Session{UserID: uint(uid), Name: name, Role: role}, exp.Time, nil
}
