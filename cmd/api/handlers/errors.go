package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nestly/internal/logger"
	"nestly/services"
)

// writeError 는 서비스 에러를 HTTP 상태와 에러 코드로 바꾼다. 알 수 없는 에러는 500 이다.
func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, err.Error()
	switch {
	case errors.Is(err, services.ErrURLRequired):
		status, code = http.StatusBadRequest, "url_required"
	case errors.Is(err, services.ErrInvalidTag):
		status, code = http.StatusBadRequest, "invalid_tag"
	case errors.Is(err, services.ErrShareKeyRequired):
		status, code = http.StatusBadRequest, "share_key_required"
	case errors.Is(err, services.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, services.ErrItemNotFound):
		status, code = http.StatusNotFound, "item_not_found"
	case errors.Is(err, services.ErrSharePayloadNotFound):
		status, code = http.StatusNotFound, "shared_payload_not_found"
	}

	if status >= http.StatusInternalServerError {
		logger.ErrorWithFields("request failed", logger.Fields{"path": c.FullPath(), "error": err.Error()})
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": code})
}

func badRequest(c *gin.Context, code string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": code})
}
