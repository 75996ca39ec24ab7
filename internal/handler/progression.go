package handler

import (
	"net/http"
	"strings"

	"github.com/emberfall-studios/skillforge/internal/domain"
	"github.com/emberfall-studios/skillforge/internal/logger"
	"github.com/emberfall-studios/skillforge/internal/progression"
)

// ProgressionHandlers contains HTTP handlers for the skill progression system
type ProgressionHandlers struct {
	service progression.Service
}

// NewProgressionHandlers creates new progression handlers
func NewProgressionHandlers(service progression.Service) *ProgressionHandlers {
	return &ProgressionHandlers{service: service}
}

// HandleGetStatus returns the player's full progression view
// @Summary Get progression status
// @Description Returns every skill's level, XP, prestige rank and the player's selection, paragon and active synergies
// @Tags progression
// @Produce json
// @Param player_id query string true "Player ID"
// @Success 200 {object} progression.Status
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /progression/status [get]
func (h *ProgressionHandlers) HandleGetStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		playerID, ok := GetQueryParam(r, w, "player_id")
		if !ok {
			return
		}

		status, err := h.service.GetStatus(r.Context(), playerID)
		if err != nil {
			respondServiceError(w, r, "Get progression status", err)
			return
		}

		log.Info("Get progression status: success", "player_id", playerID)
		respondJSON(w, http.StatusOK, status)
	}
}

// HandleGrantXP applies an XP grant to one of the player's skills
// @Summary Grant XP
// @Description Grants XP to a selected skill, applying prestige and synergy multipliers and resolving level-ups
// @Tags progression
// @Accept json
// @Produce json
// @Param request body GrantXPRequest true "Grant request"
// @Success 200 {object} domain.XPGrantResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /progression/grant-xp [post]
func (h *ProgressionHandlers) HandleGrantXP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req GrantXPRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Grant XP"); err != nil {
			return
		}

		result, err := h.service.GrantXP(r.Context(), req.PlayerID, skillID(req.Skill), req.Amount, req.Source)
		if err != nil {
			respondServiceError(w, r, "Grant XP", err)
			return
		}

		log.Info("Grant XP: success", "player_id", req.PlayerID, "skill", req.Skill, "applied", result.Applied)
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleSelectSkills replaces the player's active skill selection
// @Summary Select skills
// @Description Replaces the player's selection (up to three skills) and regenerates today's challenges
// @Tags progression
// @Accept json
// @Produce json
// @Param request body SelectSkillsRequest true "Selection request"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /progression/select-skills [post]
func (h *ProgressionHandlers) HandleSelectSkills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req SelectSkillsRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Select skills"); err != nil {
			return
		}

		skills := make([]domain.SkillID, 0, len(req.Skills))
		for _, s := range req.Skills {
			skills = append(skills, skillID(s))
		}

		if err := h.service.SelectSkills(r.Context(), req.PlayerID, skills); err != nil {
			respondServiceError(w, r, "Select skills", err)
			return
		}

		log.Info("Select skills: success", "player_id", req.PlayerID, "skills", req.Skills)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgSkillsSelectedSuccess})
	}
}

// HandleAssignParagon designates the player's paragon skill
// @Summary Assign paragon skill
// @Description Designates the one skill allowed to reach the hard level cap; reassigning replaces the previous paragon
// @Tags progression
// @Accept json
// @Produce json
// @Param request body ParagonRequest true "Paragon request"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /progression/paragon [post]
func (h *ProgressionHandlers) HandleAssignParagon() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req ParagonRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Assign paragon"); err != nil {
			return
		}

		if err := h.service.AssignParagon(r.Context(), req.PlayerID, skillID(req.Skill)); err != nil {
			respondServiceError(w, r, "Assign paragon", err)
			return
		}

		log.Info("Assign paragon: success", "player_id", req.PlayerID, "skill", req.Skill)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgParagonAssignedSuccess})
	}
}

// HandlePrestige resets a capped skill for a permanent multiplier
// @Summary Prestige a skill
// @Description Resets a skill at the hard cap back to level 1 in exchange for a permanent prestige rank
// @Tags progression
// @Accept json
// @Produce json
// @Param request body PrestigeRequest true "Prestige request"
// @Success 200 {object} domain.PrestigeResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /progression/prestige [post]
func (h *ProgressionHandlers) HandlePrestige() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req PrestigeRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Prestige"); err != nil {
			return
		}

		result, err := h.service.Prestige(r.Context(), req.PlayerID, skillID(req.Skill))
		if err != nil {
			respondServiceError(w, r, "Prestige", err)
			return
		}

		log.Info("Prestige: success", "player_id", req.PlayerID, "skill", req.Skill, "rank", result.NewRank)
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleSetToggle flips a named per-skill feature switch
// @Summary Set toggle
// @Description Sets a named boolean toggle on the player's record (for example auto-replant)
// @Tags progression
// @Accept json
// @Produce json
// @Param request body ToggleRequest true "Toggle request"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /progression/toggle [post]
func (h *ProgressionHandlers) HandleSetToggle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req ToggleRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Set toggle"); err != nil {
			return
		}

		if err := h.service.SetToggle(r.Context(), req.PlayerID, req.Key, req.Value); err != nil {
			respondServiceError(w, r, "Set toggle", err)
			return
		}

		log.Info("Set toggle: success", "player_id", req.PlayerID, "key", req.Key, "value", req.Value)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgToggleSetSuccess})
	}
}

// HandleGetPassiveMultiplier returns the combined passive output multiplier
// @Summary Get passive multiplier
// @Description Returns the skill's combined prestige and synergy passive output multiplier
// @Tags progression
// @Produce json
// @Param player_id query string true "Player ID"
// @Param skill query string true "Skill"
// @Success 200 {object} PassiveMultiplierResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /progression/passive-multiplier [get]
func (h *ProgressionHandlers) HandleGetPassiveMultiplier() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		playerID, ok := GetQueryParam(r, w, "player_id")
		if !ok {
			return
		}
		skill, ok := GetQueryParam(r, w, "skill")
		if !ok {
			return
		}

		multiplier, err := h.service.PassiveOutputMultiplier(r.Context(), playerID, skillID(skill))
		if err != nil {
			respondServiceError(w, r, "Get passive multiplier", err)
			return
		}

		log.Info("Get passive multiplier: success", "player_id", playerID, "skill", skill)
		respondJSON(w, http.StatusOK, PassiveMultiplierResponse{
			Skill:      skillID(skill),
			Multiplier: multiplier,
		})
	}
}

// HandleImportLegacy migrates a pre-rework save blob into the player's record
// @Summary Import legacy save
// @Description One-time migration of an old-format save blob; skipped when the record already shows progress
// @Tags progression,admin
// @Accept json
// @Produce json
// @Param request body ImportLegacyRequest true "Import request"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /progression/admin/import-legacy [post]
func (h *ProgressionHandlers) HandleImportLegacy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req ImportLegacyRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Import legacy"); err != nil {
			return
		}

		migrated, err := h.service.ImportLegacy(r.Context(), req.PlayerID, &req.Save)
		if err != nil {
			respondServiceError(w, r, "Import legacy", err)
			return
		}

		message := MsgLegacyImportedSuccess
		if !migrated {
			message = MsgLegacyImportSkipped
		}

		log.Info("Import legacy: done", "player_id", req.PlayerID, "migrated", migrated)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: message})
	}
}

// skillID normalizes a request skill string for the service layer,
// which re-validates it.
func skillID(s string) domain.SkillID {
	return domain.SkillID(strings.ToLower(strings.TrimSpace(s)))
}

// Request/Response types

type GrantXPRequest struct {
	PlayerID string `json:"player_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	Skill    string `json:"skill" validate:"required,skill"`
	Amount   int    `json:"amount" validate:"gt=0"`
	Source   string `json:"source" validate:"omitempty,max=50"`
}

type SelectSkillsRequest struct {
	PlayerID string   `json:"player_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	Skills   []string `json:"skills" validate:"max=3,dive,skill"`
}

type ParagonRequest struct {
	PlayerID string `json:"player_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	Skill    string `json:"skill" validate:"required,skill"`
}

type PrestigeRequest struct {
	PlayerID string `json:"player_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	Skill    string `json:"skill" validate:"required,skill"`
}

type ToggleRequest struct {
	PlayerID string `json:"player_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	Key      string `json:"key" validate:"required,max=50"`
	Value    bool   `json:"value"`
}

type PassiveMultiplierResponse struct {
	Skill      domain.SkillID `json:"skill"`
	Multiplier float64        `json:"multiplier"`
}

type ImportLegacyRequest struct {
	PlayerID string                  `json:"player_id" validate:"required,max=100,excludesall=\x00\n\r\t"`
	Save     domain.LegacyPlayerBlob `json:"save" validate:"required"`
}
