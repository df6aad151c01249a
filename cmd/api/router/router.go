package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"pastas-console/cmd/api/handlers"
	"pastas-console/cmd/api/metrics"
	"pastas-console/cmd/api/middleware"
	"pastas-console/cmd/api/services"
	_ "pastas-console/docs"
)

// Deps 는 라우터가 핸들러에 주입하는 서비스 묶음이다.
type Deps struct {
	Health         handlers.HealthChecker
	Empleados      *services.EmpleadoService
	Accesos        *services.AccesoService
	Dashboard      *services.DashboardService
	Audit          *services.AuditService
	AllowedOrigins []string
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(d.AllowedOrigins))
	r.Use(middleware.RequestTrace())
	r.Use(middleware.RequestLoggingMiddleware())
	r.Use(metrics.Middleware())

	r.GET("/health", handlers.HealthHandler(d.Health))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.GET("/empleados", handlers.ListEmpleadosHandler(d.Empleados))
		api.POST("/empleados", handlers.CreateEmpleadoHandler(d.Empleados))
		api.GET("/empleados/:id", handlers.GetEmpleadoHandler(d.Empleados))
		api.DELETE("/empleados/:id", handlers.DeleteEmpleadoHandler(d.Empleados))
		api.POST("/empleados/:id/rostro", handlers.RegistrarRostroHandler(d.Empleados))

		api.GET("/areas", handlers.ListAreasHandler(d.Accesos))
		api.GET("/accesos", handlers.ListAccesosHandler(d.Accesos))
		api.POST("/accesos/facial", handlers.RegisterFacialAccessHandler(d.Accesos))
		api.POST("/accesos/pin", handlers.RegisterPinAccessHandler(d.Accesos))

		api.GET("/dashboard", handlers.GetDashboardHandler(d.Dashboard))
		api.POST("/dashboard/refresh", handlers.RefreshDashboardHandler(d.Dashboard))

		api.GET("/auditoria", handlers.ListAuditEventsHandler(d.Audit))
	}

	return r
}

// corsMiddleware 는 rs/cors 를 gin 미들웨어로 감싼다.
// 프리플라이트 응답은 rs/cors 가 이미 작성하므로 체인만 중단한다.
func corsMiddleware(origins []string) gin.HandlerFunc {
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Span-Id"},
		AllowCredentials: true,
	})
	return func(ctx *gin.Context) {
		c.HandlerFunc(ctx.Writer, ctx.Request)
		if ctx.Request.Method == http.MethodOptions && ctx.Request.Header.Get("Access-Control-Request-Method") != "" {
			ctx.Abort()
		}
	}
}
