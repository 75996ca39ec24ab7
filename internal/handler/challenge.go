package handler

import (
	"net/http"

	"github.com/emberfall-studios/skillforge/internal/challenge"
	"github.com/emberfall-studios/skillforge/internal/domain"
	"github.com/emberfall-studios/skillforge/internal/logger"
	"github.com/emberfall-studios/skillforge/internal/progression"
)

// ChallengeHandlers contains HTTP handlers for daily challenges
type ChallengeHandlers struct {
	engine  *challenge.Engine
	service progression.Service
}

// NewChallengeHandlers creates new challenge handlers
func NewChallengeHandlers(engine *challenge.Engine, service progression.Service) *ChallengeHandlers {
	return &ChallengeHandlers{engine: engine, service: service}
}

// HandleGetChallenges returns today's challenge set for a player
// @Summary Get daily challenges
// @Description Returns today's deterministic challenge set, generating it on first access
// @Tags challenge
// @Produce json
// @Param player_id query string true "Player ID"
// @Success 200 {object} domain.ChallengeSet
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /challenges [get]
func (h *ChallengeHandlers) HandleGetChallenges() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		playerID, ok := GetQueryParam(r, w, "player_id")
		if !ok {
			return
		}

		selected, err := h.currentSelection(r, playerID)
		if err != nil {
			respondServiceError(w, r, "Get daily challenges", err)
			return
		}

		set, err := h.engine.GetChallengeSet(r.Context(), playerID, selected)
		if err != nil {
			respondServiceError(w, r, "Get daily challenges", err)
			return
		}

		log.Info("Get daily challenges: success", "player_id", playerID, "date_key", set.DateKey)
		respondJSON(w, http.StatusOK, set)
	}
}

// HandleAdminRegenerate force-regenerates a player's daily set
// @Summary Admin regenerate challenges
// @Description Discards the player's current daily set and regenerates it against their selection
// @Tags challenge,admin
// @Accept json
// @Produce json
// @Param request body RegenerateChallengesRequest true "Regenerate request"
// @Success 200 {object} domain.ChallengeSet
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /challenges/admin/regenerate [post]
func (h *ChallengeHandlers) HandleAdminRegenerate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req RegenerateChallengesRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Regenerate challenges"); err != nil {
			return
		}

		selected, err := h.currentSelection(r, req.PlayerID)
		if err != nil {
			respondServiceError(w, r, "Regenerate challenges", err)
			return
		}

		set, err := h.engine.ForceRegenerate(r.Context(), req.PlayerID, selected)
		if err != nil {
			respondServiceError(w, r, "Regenerate challenges", err)
			return
		}

		log.Info("Regenerate challenges: success", "player_id", req.PlayerID, "date_key", set.DateKey)
		respondJSON(w, http.StatusOK, set)
	}
}

// currentSelection loads the player's selection so skill-bound
// challenges attach to it.
func (h *ChallengeHandlers) currentSelection(r *http.Request, playerID string) ([]domain.SkillID, error) {
	rec, err := h.service.GetOrCreatePlayer(r.Context(), playerID)
	if err != nil {
		return nil, err
	}
	return rec.SelectedSkills, nil
}

// Request types

type RegenerateChallengesRequest struct {
	PlayerID string `json:"player_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
}
