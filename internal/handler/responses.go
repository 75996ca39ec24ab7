package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/emberfall-studios/skillforge/internal/domain"
	"github.com/emberfall-studios/skillforge/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// Helper functions for responding

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Get a buffer from the pool to reduce allocations
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent, all we can do is log
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs a service error and writes the mapped
// user-facing response.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	log := logger.FromContext(r.Context())
	status, message := mapServiceErrorToUserMessage(err)
	if status >= http.StatusInternalServerError {
		log.Error(opName+": service error", "error", err)
	} else {
		log.Warn(opName+": rejected", "error", err)
	}
	respondError(w, status, message)
}

// User-facing error messages for service errors
const (
	// Generic messages
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."

	// Skill and selection messages
	ErrMsgSkillNotFoundError    = "Unknown skill"
	ErrMsgNoSkillsSelectedError = "Select at least one skill first"
	ErrMsgSkillNotSelectedError = "That skill is not in your current selection"
	ErrMsgTooManySkillsError    = "You can select at most three skills"

	// Leveling and prestige messages
	ErrMsgLevelCapReachedError     = "Skill is at its level cap"
	ErrMsgPrestigeUnavailableError = "Skill must reach the cap before it can prestige"
	ErrMsgPrestigeCapReachedError  = "Skill is already at the maximum prestige rank"

	// Ability messages
	ErrMsgAbilityActiveError    = "Ability is already active"
	ErrMsgAbilityNotPausableErr = "That ability cannot be paused"
	ErrMsgOnCooldownError       = "Ability is on cooldown. Try again later"
	ErrMsgLevelRequirementError = "Skill level is too low for that ability"
	ErrMsgNothingToResumeError  = "No paused ability to resume"

	// Player messages
	ErrMsgPlayerNotFoundError = "Player not found"

	// Challenge messages
	ErrMsgChallengeSetMissing = "No challenge set for that date"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP
// responses. Gating errors from the ability and progression services
// are expected outcomes, not server faults, so they map to 4xx codes.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrSkillNotFound):
		return http.StatusBadRequest, ErrMsgSkillNotFoundError
	case errors.Is(err, domain.ErrNoSkillsSelected):
		return http.StatusBadRequest, ErrMsgNoSkillsSelectedError
	case errors.Is(err, domain.ErrSkillNotSelected):
		return http.StatusBadRequest, ErrMsgSkillNotSelectedError
	case errors.Is(err, domain.ErrTooManySkills):
		return http.StatusBadRequest, ErrMsgTooManySkillsError
	case errors.Is(err, domain.ErrLevelCapReached):
		return http.StatusBadRequest, ErrMsgLevelCapReachedError
	case errors.Is(err, domain.ErrPrestigeUnavailable):
		return http.StatusBadRequest, ErrMsgPrestigeUnavailableError
	case errors.Is(err, domain.ErrPrestigeCapReached):
		return http.StatusBadRequest, ErrMsgPrestigeCapReachedError
	case errors.Is(err, domain.ErrAbilityActive):
		return http.StatusConflict, ErrMsgAbilityActiveError
	case errors.Is(err, domain.ErrAbilityNotPausable):
		return http.StatusBadRequest, ErrMsgAbilityNotPausableErr
	case errors.Is(err, domain.ErrOnCooldown):
		return http.StatusTooManyRequests, ErrMsgOnCooldownError
	case errors.Is(err, domain.ErrLevelRequirement):
		return http.StatusForbidden, ErrMsgLevelRequirementError
	case errors.Is(err, domain.ErrNothingToResume):
		return http.StatusBadRequest, ErrMsgNothingToResumeError
	case errors.Is(err, domain.ErrPlayerNotFound):
		return http.StatusNotFound, ErrMsgPlayerNotFoundError
	case errors.Is(err, domain.ErrChallengeSetNotFound):
		return http.StatusNotFound, ErrMsgChallengeSetMissing
	}

	// For wrapped errors with domain errors as the base, try unwrapping
	unwrapped := errors.Unwrap(err)
	if unwrapped != nil && unwrapped != err {
		return mapServiceErrorToUserMessage(unwrapped)
	}

	// Short custom messages (tests, mocks) pass through as-is
	errMsg := err.Error()
	if errMsg != "" && len(errMsg) < 200 {
		return http.StatusInternalServerError, errMsg
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
