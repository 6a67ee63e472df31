package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"biomimic/auth"
	"biomimic/config"
	"biomimic/services"
)

// server bündelt die Abhängigkeiten der HTTP-Handler.
type server struct {
	cfg    *config.Config
	log    *zap.Logger
	issuer *auth.Issuer

	users        *services.UserService
	problems     *services.ProblemService
	solutions    *services.SolutionService
	inspirations *services.InspirationService
	chat         *services.ChatService
	export       *services.ExportService
}

func newRouter(s *server) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(s.log))
	router.Use(cors.New(corsConfig(s.cfg.AllowedOrigins())))
	router.Use(identifyMiddleware(s.issuer))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Routes
	setupUserRoutes(router, s)
	setupProblemRoutes(router, s)
	setupSolutionRoutes(router, s)
	setupInspirationRoutes(router, s)
	setupChatRoutes(router, s)
	setupAdminRoutes(router, s)
	return router
}

func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "X-API-KEY"},
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
		return cc
	}
	cc.AllowOrigins = origins
	cc.AllowCredentials = true
	return cc
}

// respondError bildet Service-Fehler auf Statuscodes ab. Unbekannte Fehler werden geloggt
// und als "database error" gemeldet.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var svcErr *services.Error
	msg := "database error"
	if errors.As(err, &svcErr) {
		msg = svcErr.Message
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrAIGeneration):
		status = http.StatusBadGateway
	default:
		msg = "database error"
		log.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}

// idParam liest einen numerischen Pfadparameter. Bei ungültigem Wert ist die Antwort bereits geschrieben.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
