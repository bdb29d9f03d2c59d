package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/meteorites-backend-go/internal/config"
	"github.com/jengzang/meteorites-backend-go/internal/handler"
	"github.com/jengzang/meteorites-backend-go/internal/middleware"
	"github.com/jengzang/meteorites-backend-go/internal/ratelimit"
	"github.com/jengzang/meteorites-backend-go/internal/service"
	"github.com/jengzang/meteorites-backend-go/pkg/response"
)

// InvalidEndpointMessage is returned for unknown routes and methods
const InvalidEndpointMessage = "The requested endpoint is invalid."

// Deps 路由依赖
type Deps struct {
	Config  *config.Config
	Service *service.MeteoriteService
	Limiter *ratelimit.Limiter
	Log     *slog.Logger
}

// SetupRouter 设置路由
func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.RedirectTrailingSlash = false
	r.TrustedPlatform = d.Config.Server.TrustedPlatform
	if err := r.SetTrustedProxies(nil); err != nil {
		d.Log.Warn("failed to reset trusted proxies", "error", err)
	}

	// 顺序: favicon, CORS, 配置与就绪检查, 预检请求, 客户端识别
	r.Use(
		middleware.Recovery(d.Log),
		middleware.Logger(d.Log),
		middleware.Favicon(),
		middleware.CORS(),
		middleware.Gate(d.Service),
		middleware.Preflight(),
		middleware.ClientID(d.Config.JWTSecret),
	)

	h := handler.NewMeteoriteHandler(d.Service, d.Log)

	r.GET("/", h.Root)

	// 数据接口, 每个客户端按间隔限流
	data := r.Group("/", middleware.RateLimit(d.Limiter, d.Log))
	{
		data.GET("/stats", h.Stats)
		data.GET("/random", h.Random)
		data.GET("/get", h.Get)
		data.GET("/search", h.Search)
	}

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, InvalidEndpointMessage)
	})

	return r
}
