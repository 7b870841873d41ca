package main

import (
	"context"

	"github.com/imkonsowa/vibe-eats/recommender"
)

const (
	WelcomeMessage = "Welcome to the Vibe Eats API!"

	ErrMsgMoodRequired  = "Mood text is required"
	ErrMsgEmptyCatalog  = "No restaurants available in database"
	ErrMsgParseResponse = "Failed to parse AI response"
)

// Recommender produces recommendations for a mood. *recommender.Service is the
// production implementation.
type Recommender interface {
	Recommend(ctx context.Context, mood string) ([]recommender.Recommendation, error)
}

type RecommendationRequest struct {
	Mood string `json:"mood" binding:"required"`
}

type RecommendationsResponse struct {
	Recommendations []recommender.Recommendation `json:"recommendations"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
