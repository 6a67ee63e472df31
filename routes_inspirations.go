package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"biomimic/services"
)

func setupInspirationRoutes(router *gin.Engine, s *server) {
	rg := router.Group("/inspirations")

	rg.GET("", func(c *gin.Context) {
		items, err := s.inspirations.List(c.Request.Context(), services.InspirationFilter{
			Category: c.Query("category"),
			Organism: c.Query("organism"),
		})
		if err != nil {
			respondError(c, s.log, err)
			return
		}
		c.JSON(http.StatusOK, items)
	})

	rg.GET("/categories", func(c *gin.Context) {
		cats, err := s.inspirations.Categories(c.Request.Context())
		if err != nil {
			respondError(c, s.log, err)
			return
		}
		c.JSON(http.StatusOK, cats)
	})
}
