package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nestly/cmd/api/auth"
	"nestly/cmd/api/dto"
	"nestly/services"
)

// SaveSharePayloadHandler godoc
// @Summary      공유 항목 맡기기
// @Description  공유 확장이 받은 항목에서 URL 을 뽑아 key 로 저장한다. 딥링크의 dataUrl 이 이 key 를 가리킨다.
// @Tags         shares
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SaveShareRequestDTO  true  "공유 항목"
// @Success      200   {object}  dto.MessageResponseDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Router       /shares [post]
func SaveSharePayloadHandler(shares *services.ShareService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SaveShareRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid_request_body")
			return
		}

		if err := shares.SaveSharedPayload(c.Request.Context(), auth.UserID(c), req.Key, req.Items); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "shared payload saved"})
	}
}

// IngestShareHandler godoc
// @Summary      공유 링크 저장
// @Description  딥링크(link) 또는 공유 항목(items)에서 URL 을 찾아 저장한다.
// @Tags         shares
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ShareIngestRequestDTO  true  "딥링크/공유 항목"
// @Success      200   {object}  dto.ItemDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO
// @Router       /shares/ingest [post]
func IngestShareHandler(shares *services.ShareService, items *services.ItemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ShareIngestRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid_request_body")
			return
		}

		userID := auth.UserID(c)
		item, err := shares.IngestShare(c.Request.Context(), userID, req.ToInput())
		if err != nil {
			writeError(c, err)
			return
		}
		respondItem(c, items, userID, item.ID.Hex())
	}
}
