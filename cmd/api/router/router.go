package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"nestly/cmd/api/handlers"
	"nestly/cmd/api/middleware"
	_ "nestly/docs"
	"nestly/services"
)

// Deps 는 라우터가 쓰는 서비스 묶음이다. main 과 테스트가 채운다.
type Deps struct {
	Ingest  *services.IngestService
	Items   *services.ItemService
	Tagging *services.TaggingService
	Shares  *services.ShareService
	Tokens  middleware.TokenParser
	// Ping 은 /health 에서 저장소 연결을 확인한다. nil 이면 항상 ok.
	Ping func(ctx context.Context) error
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace(), middleware.RequestLoggingMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if d.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
			defer cancel()
			if err := d.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": "down", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1", middleware.RequireUser(d.Tokens))
	{
		api.POST("/items", handlers.IngestItemHandler(d.Ingest, d.Items))
		api.GET("/items", handlers.ListItemsHandler(d.Items))
		api.GET("/items/:id", handlers.GetItemHandler(d.Items))
		api.PATCH("/items/:id/done", handlers.SetItemDoneHandler(d.Items))
		api.PUT("/items/:id/tags", handlers.UpsertItemTagsHandler(d.Items))
		api.POST("/items/:id/reclassify", handlers.ReclassifyItemHandler(d.Tagging))

		api.POST("/classify", handlers.ClassifyHandler(d.Tagging))

		api.POST("/shares", handlers.SaveSharePayloadHandler(d.Shares))
		api.POST("/shares/ingest", handlers.IngestShareHandler(d.Shares, d.Items))
	}

	return r
}
