package middleware

import (
	"github.com/gin-gonic/gin"

	"nestly/cmd/api/auth"
	"nestly/internal/logger"
)

// TokenParser 는 auth.JWTManager 가 구현한다.
type TokenParser interface {
	Parse(token string) (string, error)
}

// RequireUser 는 Bearer 토큰을 검증하고 user id 를 컨텍스트에 넣는다.
func RequireUser(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c)
		if err != nil {
			auth.AbortWithUnauthorized(c, err)
			return
		}

		userID, err := parser.Parse(token)
		if err != nil {
			logger.DebugWithFields("rejected access token", logger.Fields{"path": c.Request.URL.Path, "error": err.Error()})
			auth.AbortWithUnauthorized(c, auth.ErrInvalidToken)
			return
		}

		auth.SetUserID(c, userID)
		c.Next()
	}
}
