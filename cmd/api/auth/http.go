package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	ErrMissingHeader = errors.New("missing_authorization_header")
	ErrInvalidFormat = errors.New("invalid_authorization_header")
	ErrEmptyToken    = errors.New("empty_token")
	ErrInvalidToken  = errors.New("invalid_token")
)

const userIDKey = "user_id"

// ExtractBearerToken 은 "Authorization: Bearer <token>" 에서 토큰을 꺼낸다.
func ExtractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", ErrMissingHeader
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", ErrInvalidFormat
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", ErrEmptyToken
	}
	return token, nil
}

// AbortWithUnauthorized 는 401 과 함께 {"error": code} 로 응답을 끝낸다.
func AbortWithUnauthorized(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
}

func SetUserID(c *gin.Context, userID string) {
	c.Set(userIDKey, userID)
}

// UserID 는 인증 미들웨어가 넣어 둔 user id 다. 없으면 "".
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
