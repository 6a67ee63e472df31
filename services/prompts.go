package services

import (
	"fmt"
	"strings"

	"biomimic/models"
)

const (
	solutionTemperature = 0.8
	chatTemperature     = 0.7
	chatMaxTokens       = 500
	chatHistoryLimit    = 10
	popularLimit        = 20
)

const chatSystemPrompt = `You are a biomimicry expert assistant helping users understand how nature solves engineering problems. You specialize in:

1. Explaining biological mechanisms and how they can inspire engineering solutions
2. Suggesting nature-inspired approaches to sustainability challenges
3. Providing examples of successful biomimicry applications
4. Helping users think creatively about biological solutions

Keep responses informative but conversational. Focus on practical applications and real-world examples. When possible, suggest specific organisms or natural phenomena that could inspire solutions.`

// renderSolutionPrompt baut den Prompt für eine KI-Lösung zu einem Problem.
func renderSolutionPrompt(p *models.Problem) string {
	return fmt.Sprintf(`As a biomimicry expert, analyze this sustainability challenge and provide a nature-inspired solution:

Problem: %s
Description: %s
Category: %s
Tags: %s

Please provide a detailed biomimicry solution in the following JSON format:
{
  "title": "Concise solution title",
  "description": "Detailed description of the solution",
  "natureInspiration": "Which organism or natural phenomenon inspired this",
  "biomimicryPrinciple": "The specific biological mechanism being mimicked",
  "implementation": "How this could be implemented in practice",
  "benefits": ["benefit1", "benefit2", "benefit3"]
}

Focus on practical, innovative solutions that directly address the sustainability challenge.`,
		p.Title, p.Description, p.Category, strings.Join(p.Tags, ", "))
}
