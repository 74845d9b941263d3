package router

import (
	"time"

	cataloghandler "stock_dashboard/internal/feature/catalog/transport/handler"
	priceshandler "stock_dashboard/internal/feature/prices/transport/handler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Prices    *priceshandler.PriceHandler
	Companies *cataloghandler.CompanyHandler
	Health    gin.HandlerFunc
}

// NewRouter builds the gin engine. corsOrigins limits cross-origin access to /api;
// an empty list allows every origin.
func NewRouter(h Handlers, corsOrigins []string) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(priceshandler.Templates())

	// 導通確認用
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)

	// ダッシュボード画面
	r.GET("/", h.Prices.Page)

	api := r.Group("/api")
	api.Use(corsMiddleware(corsOrigins))
	{
		api.GET("/prices", h.Prices.Prices)
		api.GET("/companies", h.Companies.List)
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	})
}
