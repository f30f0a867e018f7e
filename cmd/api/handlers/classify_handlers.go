package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nestly/classifier"
	"nestly/cmd/api/auth"
	"nestly/cmd/api/dto"
	"nestly/services"
)

// ClassifyHandler godoc
// @Summary      아이템 분류
// @Description  title/caption/hashtags 로 태그를 매기고 저장한다. 빈 필드는 저장된 값으로 채운다.
// @Tags         classify
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ClassifyRequestDTO  true  "분류 입력"
// @Success      200   {array}   dto.ScoreDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO
// @Failure      500   {object}  dto.ErrorResponseDTO
// @Router       /classify [post]
func ClassifyHandler(tagging *services.TaggingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ClassifyRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid_request_body")
			return
		}

		scores, err := tagging.ClassifyItem(c.Request.Context(), auth.UserID(c), req.ToInput())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, scoreDTOs(scores))
	}
}

// ReclassifyItemHandler godoc
// @Summary      재분류
// @Description  이벤트 버스가 켜져 있으면 워커에 맡기고 202 를, 아니면 바로 분류해서 점수를 돌려준다.
// @Tags         classify
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "ObjectID"
// @Success      200  {array}   dto.ScoreDTO
// @Success      202  {object}  dto.MessageResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /items/{id}/reclassify [post]
func ReclassifyItemHandler(tagging *services.TaggingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		scores, queued, err := tagging.RequestReclassify(c.Request.Context(), auth.UserID(c), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		if queued {
			c.JSON(http.StatusAccepted, gin.H{"message": "reclassify queued"})
			return
		}
		c.JSON(http.StatusOK, scoreDTOs(scores))
	}
}

func scoreDTOs(scores []classifier.Score) []dto.ScoreDTO {
	out := make([]dto.ScoreDTO, 0, len(scores))
	for _, s := range scores {
		out = append(out, dto.ScoreDTO{Tag: string(s.Tag), Confidence: s.Confidence})
	}
	return out
}
