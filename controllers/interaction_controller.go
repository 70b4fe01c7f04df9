package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"petmatch_server/helpers"
	"petmatch_server/middleware"
	"petmatch_server/models"
	"petmatch_server/services"
)

// EmptyFeedMessage is returned when no eligible candidate is left
const EmptyFeedMessage = "No more candidates available right now. Check back later!"

// InteractionController serves the swipe feed, swipe actions and favorites
type InteractionController struct {
	Feed        *services.FeedService
	Interaction *services.InteractionService
	Photos      services.PhotoSigner
	Timeout     time.Duration
	validate    *validator.Validate
}

// NewInteractionController initializes the controller
func NewInteractionController(feed *services.FeedService, interaction *services.InteractionService, photos services.PhotoSigner, timeout time.Duration) *InteractionController {
	return &InteractionController{
		Feed:        feed,
		Interaction: interaction,
		Photos:      photos,
		Timeout:     timeout,
		validate:    validator.New(),
	}
}

type actionRequest struct {
	CandidateID string `json:"candidate_id" validate:"required"`
	AnimalID    string `json:"animal_id"`
	Action      string `json:"action" validate:"required,oneof=like dislike"`
}

// HandleNextCard returns one random unjudged candidate
func (c *InteractionController) HandleNextCard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.Timeout)
	defer cancel()

	candidate, err := c.Feed.NextCard(ctx, middleware.UserIDFromContext(ctx))
	if err != nil {
		helpers.WriteErrorResponse(w, r, err)
		return
	}
	if candidate == nil {
		helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{
			"status":  "empty",
			"message": EmptyFeedMessage,
		})
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, services.RenderCard(ctx, c.Photos, candidate))
}

// HandleAction records a like or dislike
func (c *InteractionController) HandleAction(w http.ResponseWriter, r *http.Request) {
	var request actionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		helpers.WriteJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if request.CandidateID == "" {
		request.CandidateID = request.AnimalID
	}
	if err := c.validate.Struct(request); err != nil {
		helpers.WriteErrorResponse(w, r, fmt.Errorf("%s: %w", err.Error(), models.ErrInvalidArgument))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), c.Timeout)
	defer cancel()

	result, err := c.Interaction.RecordJudgment(ctx, middleware.UserIDFromContext(ctx), request.CandidateID, request.Action)
	if err != nil {
		helpers.WriteErrorResponse(w, r, err)
		return
	}

	isLike := result.Judgment.IsLike()
	message := "Candidate disliked"
	if isLike {
		message = "Candidate liked"
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	helpers.WriteJSONResponse(w, status, map[string]interface{}{
		"status":  "ok",
		"is_like": isLike,
		"chat_id": result.ChannelID,
		"message": message,
	})
}

// HandleFavorites lists the candidates the user liked
func (c *InteractionController) HandleFavorites(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.Timeout)
	defer cancel()

	liked, err := c.Interaction.LikedCandidates(ctx, middleware.UserIDFromContext(ctx))
	if err != nil {
		helpers.WriteErrorResponse(w, r, err)
		return
	}
	cards := make([]*models.CandidateCard, 0, len(liked))
	for _, candidate := range liked {
		cards = append(cards, services.RenderCard(ctx, c.Photos, candidate))
	}
	helpers.WriteJSONResponse(w, http.StatusOK, cards)
}

// HandleFavoriteIDs lists only the ids of liked candidates
func (c *InteractionController) HandleFavoriteIDs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.Timeout)
	defer cancel()

	ids, err := c.Interaction.LikedCandidateIDs(ctx, middleware.UserIDFromContext(ctx))
	if err != nil {
		helpers.WriteErrorResponse(w, r, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string][]string{"favorite_ids": ids})
}
