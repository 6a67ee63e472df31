package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func setupSolutionRoutes(router *gin.Engine, s *server) {
	rg := router.Group("/solutions")

	rg.GET("/popular", func(c *gin.Context) {
		solutions, err := s.solutions.ListPopular(c.Request.Context())
		if err != nil {
			respondError(c, s.log, err)
			return
		}
		c.JSON(http.StatusOK, solutions)
	})

	rg.POST("/:id/like", func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		res, err := s.solutions.ToggleLike(c.Request.Context(), currentUserID(c), id)
		if err != nil {
			respondError(c, s.log, err)
			return
		}
		c.JSON(http.StatusOK, res)
	})
}
