package handler

import (
	"net/http"

	"github.com/emberfall-studios/skillforge/internal/ability"
	"github.com/emberfall-studios/skillforge/internal/domain"
	"github.com/emberfall-studios/skillforge/internal/logger"
)

// AbilityHandlers contains HTTP handlers for ability activation
type AbilityHandlers struct {
	controller *ability.Controller
}

// NewAbilityHandlers creates new ability handlers
func NewAbilityHandlers(controller *ability.Controller) *AbilityHandlers {
	return &AbilityHandlers{controller: controller}
}

// HandleActivate activates a skill's master ability
// @Summary Activate ability
// @Description Starts the skill's master ability if the level, cooldown and single-active gates all pass
// @Tags ability
// @Accept json
// @Produce json
// @Param request body AbilityRequest true "Activation request"
// @Success 200 {object} ability.ActivationResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /ability/activate [post]
func (h *AbilityHandlers) HandleActivate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req AbilityRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Activate ability"); err != nil {
			return
		}

		result, err := h.controller.Activate(r.Context(), req.PlayerID, skillID(req.Skill))
		if err != nil {
			respondServiceError(w, r, "Activate ability", err)
			return
		}

		log.Info("Activate ability: success", "player_id", req.PlayerID, "skill", req.Skill)
		respondJSON(w, http.StatusOK, result)
	}
}

// HandlePauseResume toggles a pausable ability between active and paused
// @Summary Pause or resume ability
// @Description Pauses an active window (storing the remainder) or resumes a paused one; cooldown is unaffected
// @Tags ability
// @Accept json
// @Produce json
// @Param request body AbilityRequest true "Pause/resume request"
// @Success 200 {object} AbilityLifecycleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /ability/pause-resume [post]
func (h *AbilityHandlers) HandlePauseResume() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req AbilityRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Pause/resume ability"); err != nil {
			return
		}

		if err := h.controller.PauseOrResume(r.Context(), req.PlayerID, skillID(req.Skill)); err != nil {
			respondServiceError(w, r, "Pause/resume ability", err)
			return
		}

		state := h.controller.Lifecycle(req.PlayerID, skillID(req.Skill))

		log.Info("Pause/resume ability: success", "player_id", req.PlayerID, "skill", req.Skill, "phase", state.Phase)
		respondJSON(w, http.StatusOK, AbilityLifecycleResponse{
			Message: MsgAbilityPausedOrResumed,
			State:   state,
		})
	}
}

// Request/Response types

type AbilityRequest struct {
	PlayerID string `json:"player_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	Skill    string `json:"skill" validate:"required,skill"`
}

type AbilityLifecycleResponse struct {
	Message string                       `json:"message"`
	State   domain.AbilityLifecycleState `json:"state"`
}
