// utils/auth.go
package utils

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	ContextUserID  = "userId"
	ContextIsAdmin = "isAdmin"
	TokenCookie    = "token"
)

var ErrInvalidToken = errors.New("invalid token")

// PasswordCost is the bcrypt work factor.
var PasswordCost = 14

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

type TokenManager struct {
	secret []byte
	expiry time.Duration
	clock  func() time.Time
}

func NewTokenManager(secret string, expiryHours int) *TokenManager {
	if expiryHours <= 0 {
		expiryHours = 24
	}
	return &TokenManager{
		secret: []byte(secret),
		expiry: time.Duration(expiryHours) * time.Hour,
		clock:  time.Now,
	}
}

// Expiry is how long issued tokens stay valid.
func (m *TokenManager) Expiry() time.Duration {
	return m.expiry
}

// Generate JWT token
func (m *TokenManager) GenerateToken(userID uuid.UUID, isAdmin bool) (string, error) {
	if len(m.secret) == 0 {
		return "", errors.New("JWT secret not set")
	}
	now := m.clock()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID.String(),
		"admin": isAdmin,
		"exp":   now.Add(m.expiry).Unix(),
		"iat":   now.Unix(),
	})
	return token.SignedString(m.secret)
}

// ParseToken validates tokenString and returns its subject and admin claim.
func (m *TokenManager) ParseToken(tokenString string) (uuid.UUID, bool, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.clock))
	if err != nil || !token.Valid {
		return uuid.Nil, false, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, false, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, false, ErrInvalidToken
	}
	isAdmin, _ := claims["admin"].(bool)
	return userID, isAdmin, nil
}

// Auth middleware
func AuthMiddleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
			tokenString = tokenString[7:]
		}
		if tokenString == "" {
			if cookie, err := c.Cookie(TokenCookie); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			RespondWithError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		userID, isAdmin, err := tokens.ParseToken(tokenString)
		if err != nil {
			RespondWithError(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextIsAdmin, isAdmin)
		c.Next()
	}
}

// AdminChecker confirms against the store that a user still holds admin rights.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware(checker AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok || !c.GetBool(ContextIsAdmin) {
			RespondWithError(c, http.StatusForbidden, "Admin access required")
			return
		}
		isAdmin, err := checker.IsAdmin(c.Request.Context(), userID)
		if err != nil || !isAdmin {
			RespondWithError(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
