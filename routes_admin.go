package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func setupAdminRoutes(router *gin.Engine, s *server) {
	rg := router.Group("/admin", apiKeyAuthMiddleware(s.cfg))

	rg.POST("/seed", func(c *gin.Context) {
		n, err := s.inspirations.Seed(c.Request.Context())
		if err != nil {
			respondError(c, s.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"seeded": n})
	})

	rg.GET("/exports/workbook", func(c *gin.Context) {
		data, err := s.export.Workbook(c.Request.Context())
		if err != nil {
			respondError(c, s.log, err)
			return
		}
		name := fmt.Sprintf("biomimic-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		c.Data(http.StatusOK, xlsxContentType, data)
	})

	rg.POST("/exports/snapshot", func(c *gin.Context) {
		key, err := s.export.Snapshot(c.Request.Context())
		if err != nil {
			respondError(c, s.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"key": key})
	})
}
