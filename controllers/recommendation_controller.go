package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"petmatch_server/helpers"
	"petmatch_server/middleware"
	"petmatch_server/models"
	"petmatch_server/services"
)

type RecommendationController struct {
	Recommendations *services.RecommendationService
	Photos          services.PhotoSigner
	Timeout         time.Duration
}

func NewRecommendationController(recs *services.RecommendationService, photos services.PhotoSigner, timeout time.Duration) *RecommendationController {
	return &RecommendationController{Recommendations: recs, Photos: photos, Timeout: timeout}
}

type recommendationEntry struct {
	*models.CandidateCard
	RecommendationScore float64 `json:"recommendation_score"`
	MatchPercentage     int     `json:"match_percentage"`
	ScorePreferences    float64 `json:"score_preferences"`
	ScoreHistory        float64 `json:"score_history"`
	PopularityBonus     float64 `json:"popularity_bonus"`
}

// HandleRecommendations returns the top ranked candidates. ?limit=N overrides the default size.
func (c *RecommendationController) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			helpers.WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "limit must be an integer"})
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), c.Timeout)
	defer cancel()

	scored, err := c.Recommendations.TopNRecommendations(ctx, middleware.UserIDFromContext(ctx), limit)
	if err != nil {
		helpers.WriteErrorResponse(w, r, err)
		return
	}

	entries := make([]recommendationEntry, 0, len(scored))
	for _, s := range scored {
		entries = append(entries, recommendationEntry{
			CandidateCard:       services.RenderCard(ctx, c.Photos, s.Candidate),
			RecommendationScore: s.Score,
			MatchPercentage:     s.MatchPercentage(),
			ScorePreferences:    s.ExplicitScore,
			ScoreHistory:        s.ImplicitScore,
			PopularityBonus:     s.PopularityBonus,
		})
	}

	message := "Recommendations based on your preferences and history"
	if len(entries) == 0 {
		message = EmptyFeedMessage
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"recommendations": entries,
		"total":           len(entries),
		"message":         message,
	})
}
