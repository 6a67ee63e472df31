package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"biomimic/services"
)

func setupProblemRoutes(router *gin.Engine, s *server) {
	rg := router.Group("/problems")

	rg.GET("", func(c *gin.Context) {
		problems, err := s.problems.List(c.Request.Context(), services.ProblemFilter{
			Category: c.Query("category"),
			Status:   c.Query("status"),
		})
		if err != nil {
			respondError(c, s.log, err)
			return
		}
		c.JSON(http.StatusOK, problems)
	})

	rg.POST("", func(c *gin.Context) {
		var req services.SubmitProblemInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		problem, err := s.problems.Submit(c.Request.Context(), currentUserID(c), req)
		if err != nil {
			respondError(c, s.log, err)
			return
		}
		c.JSON(http.StatusCreated, problem)
	})

	rg.GET("/:id", func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		problem, err := s.problems.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, s.log, err)
			return
		}
		c.JSON(http.StatusOK, problem)
	})

	rg.PATCH("/:id/status", func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req struct {
			Status string `json:"status" binding:"required,oneof=pending in_progress solved"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		problem, err := s.problems.UpdateStatus(c.Request.Context(), currentUserID(c), id, req.Status)
		if err != nil {
			respondError(c, s.log, err)
			return
		}
		c.JSON(http.StatusOK, problem)
	})

	rg.GET("/:id/solutions", func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		solutions, err := s.solutions.ListByProblem(c.Request.Context(), id)
		if err != nil {
			respondError(c, s.log, err)
			return
		}
		c.JSON(http.StatusOK, solutions)
	})

	rg.POST("/:id/solutions", func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req services.SolutionDraft
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		solution, err := s.solutions.CreateUserSolution(c.Request.Context(), currentUserID(c), id, req)
		if err != nil {
			respondError(c, s.log, err)
			return
		}
		c.JSON(http.StatusCreated, solution)
	})

	rg.POST("/:id/solutions/generate", func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		solution, err := s.solutions.GenerateAISolution(c.Request.Context(), id)
		if err != nil {
			respondError(c, s.log, err)
			return
		}
		c.JSON(http.StatusCreated, solution)
	})
}
