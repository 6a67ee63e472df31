package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Content string `json:"content" binding:"required"`
}

func setupChatRoutes(router *gin.Engine, s *server) {
	rg := router.Group("/chat/sessions")

	rg.POST("", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"session_id": s.chat.NewSessionID()})
	})

	rg.GET("/:sid/messages", func(c *gin.Context) {
		msgs, err := s.chat.GetMessages(c.Request.Context(), c.Param("sid"))
		if err != nil {
			respondError(c, s.log, err)
			return
		}
		c.JSON(http.StatusOK, msgs)
	})

	rg.POST("/:sid/messages", func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		var userID *uint
		if uid := currentUserID(c); uid != 0 {
			userID = &uid
		}
		msg, err := s.chat.SendMessage(c.Request.Context(), userID, c.Param("sid"), req.Content)
		if err != nil {
			respondError(c, s.log, err)
			return
		}
		c.JSON(http.StatusCreated, msg)
	})

	rg.POST("/:sid/reply", func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		reply, err := s.chat.GenerateAIResponse(c.Request.Context(), c.Param("sid"), req.Content)
		if err != nil {
			respondError(c, s.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"content": reply})
	})
}
