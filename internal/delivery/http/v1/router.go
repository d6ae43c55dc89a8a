package v1

import (
	"net/http"

	"ats-backend/config"
	"ats-backend/internal/delivery/http/middleware"
	"ats-backend/internal/delivery/http/response"
	"ats-backend/internal/domain"
	"ats-backend/internal/usecase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	CandidateUC domain.CandidateUsecase
	DocumentUC  domain.DocumentUsecase
	HealthUC    usecase.HealthUsecase
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	// Health Check
	r.GET("/health", func(c *gin.Context) {
		payload := deps.HealthUC.Check(c.Request.Context())
		status := http.StatusOK
		if payload["status"] != "ok" {
			status = http.StatusServiceUnavailable
		}
		response.Success(c, status, "Health check", payload)
	})

	api := r.Group("/api/v1")

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	NewCandidateHandler(api, deps.CandidateUC, deps.Config.DefaultRecruiterID)
	NewDocumentHandler(api, deps.DocumentUC)

	return r
}
