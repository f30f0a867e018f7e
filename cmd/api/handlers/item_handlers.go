package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nestly/cmd/api/auth"
	"nestly/cmd/api/dto"
	"nestly/services"
)

// IngestItemHandler godoc
// @Summary      링크 저장
// @Description  URL 을 정규화해 저장한다. 같은 사용자가 같은 링크를 다시 저장하면 기존 아이템을 보강해서 돌려준다.
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.IngestRequestDTO  true  "저장할 링크"
// @Success      200   {object}  dto.ItemDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      401   {object}  dto.ErrorResponseDTO
// @Failure      500   {object}  dto.ErrorResponseDTO
// @Router       /items [post]
func IngestItemHandler(ingest *services.IngestService, items *services.ItemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.IngestRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid_request_body")
			return
		}

		userID := auth.UserID(c)
		item, err := ingest.Ingest(c.Request.Context(), userID, req.URL, req.Note)
		if err != nil {
			writeError(c, err)
			return
		}
		respondItem(c, items, userID, item.ID.Hex())
	}
}

// ListItemsHandler godoc
// @Summary      피드 조회
// @Description  최신순 피드. tag 가 비었거나 All 이면 전체, Inbox 면 완료하지 않은 아이템, 그 외에는 해당 태그가 붙은 아이템이다.
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        tag        query     string  false  "All | Inbox | 태그 이름"
// @Param        page       query     int     false  "Page number (1-based)"
// @Param        page_size  query     int     false  "Page size (<=100)"
// @Success      200        {object}  dto.PaginationItemDTO
// @Failure      400        {object}  dto.ErrorResponseDTO
// @Failure      401        {object}  dto.ErrorResponseDTO
// @Router       /items [get]
func ListItemsHandler(items *services.ItemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q services.FeedQuery
		q.Tag = c.Query("tag")
		q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
		q.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

		page, err := items.ListFeed(c.Request.Context(), auth.UserID(c), q)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewItemPage(page))
	}
}

// GetItemHandler godoc
// @Summary      아이템 조회
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "ObjectID"
// @Success      200  {object}  dto.ItemDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /items/{id} [get]
func GetItemHandler(items *services.ItemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondItem(c, items, auth.UserID(c), c.Param("id"))
	}
}

// SetItemDoneHandler godoc
// @Summary      완료 표시
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ObjectID"
// @Param        body  body      dto.SetDoneRequestDTO  true  "완료 여부"
// @Success      200   {object}  dto.ItemDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO
// @Router       /items/{id}/done [patch]
func SetItemDoneHandler(items *services.ItemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SetDoneRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid_request_body")
			return
		}

		userID, id := auth.UserID(c), c.Param("id")
		if err := items.SetDone(c.Request.Context(), userID, id, *req.Done); err != nil {
			writeError(c, err)
			return
		}
		respondItem(c, items, userID, id)
	}
}

// UpsertItemTagsHandler godoc
// @Summary      태그 수동 지정
// @Description  태그를 추가하거나 confidence 를 갱신한다. confidence 가 없으면 null 로 저장된다.
// @Tags         items
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "ObjectID"
// @Param        body  body      []dto.TagRequestDTO  true  "태그 목록"
// @Success      200   {array}   dto.TagDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO
// @Router       /items/{id}/tags [put]
func UpsertItemTagsHandler(items *services.ItemService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req []dto.TagRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid_request_body")
			return
		}

		tags, err := items.UpsertTags(c.Request.Context(), auth.UserID(c), c.Param("id"), dto.ToTagInputs(req))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewTagDTOs(tags))
	}
}

func respondItem(c *gin.Context, items *services.ItemService, userID, id string) {
	view, err := items.Get(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewItemDTOFromView(*view))
}
