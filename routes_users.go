package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func setupUserRoutes(router *gin.Engine, s *server) {
	rg := router.Group("/users")

	// Entwicklungs-Identität: wer eine E-Mail kennt, erhält ein Token für dieses Profil, ohne Nachweis.
	rg.POST("", func(c *gin.Context) {
		var req struct {
			Name  string `json:"name"`
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		user, token, err := s.users.Register(c.Request.Context(), req.Name, req.Email)
		if err != nil {
			respondError(c, s.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
	})

	rg.GET("/me", func(c *gin.Context) {
		uid := currentUserID(c)
		if uid == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
			return
		}
		user, err := s.users.Get(c.Request.Context(), uid)
		if err != nil {
			respondError(c, s.log, err)
			return
		}
		c.JSON(http.StatusOK, user)
	})
}
