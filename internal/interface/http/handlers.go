package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fitplay-hub/fitplay-progression/internal/application/command"
	"github.com/fitplay-hub/fitplay-progression/internal/application/query"
	"github.com/fitplay-hub/fitplay-progression/internal/domain/shared"
	"github.com/fitplay-hub/fitplay-progression/pkg/circuitbreaker"
	"github.com/fitplay-hub/fitplay-progression/pkg/logger"
	"github.com/fitplay-hub/fitplay-progression/pkg/timeutil"
)

// maxBodyBytes caps request bodies; every write payload here is small.
const maxBodyBytes = 64 << 10

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError translates domain errors into HTTP status codes.
// Validation failures are 400, missing aggregates 404, state conflicts
// (double validation, inactive training) 409, an open Redis breaker 503.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case shared.IsInvalidState(err):
		writeJSONError(w, http.StatusConflict, "invalid_state", err.Error())
	case shared.IsAlreadyExists(err):
		writeJSONError(w, http.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, circuitbreaker.ErrCircuitOpen), errors.Is(err, circuitbreaker.ErrTooManyRequests):
		writeJSONError(w, http.StatusServiceUnavailable, "ranking_unavailable", "Leaderboard is temporarily unavailable")
	default:
		s.logger.Error("request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
			logger.Err(err),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// decodeBody decodes a JSON request body into dest.
func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body is not valid JSON: "+err.Error())
		return false
	}
	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// ROOT & STATUS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Unknown endpoint")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "fitplay-progression",
		"version": "v1",
		"uptime":  s.Uptime().String(),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ATHLETE PROGRESS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.deps.GetUserProgress.Handle(r.Context(), query.GetUserProgressQuery{
		UserID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleGetXpHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.deps.GetXpHistory.Handle(r.Context(), query.GetXpHistoryQuery{
		UserID: r.PathValue("id"),
		Limit:  getQueryParamInt(r, "limit", 0),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleGetCompletions(w http.ResponseWriter, r *http.Request) {
	completions, err := s.deps.GetCompletions.Handle(r.Context(), query.GetCompletionsQuery{
		UserID: r.PathValue("id"),
		Limit:  getQueryParamInt(r, "limit", 0),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, completions)
}

func (s *Server) handleGetAchievements(w http.ResponseWriter, r *http.Request) {
	q := query.GetAchievementsQuery{UserID: r.PathValue("id")}

	// ?all=true returns the full catalog with earned/locked flags.
	if getQueryParamBool(r, "all") {
		statuses, err := s.deps.GetAchievements.HandleAllStatuses(r.Context(), q)
		if err != nil {
			s.writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, statuses)
		return
	}

	earned, err := s.deps.GetAchievements.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, earned)
}

func (s *Server) handleGetUserRank(w http.ResponseWriter, r *http.Request) {
	entry, err := s.deps.GetLeaderboard.HandleRank(r.Context(), query.GetUserRankQuery{
		UserID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleGetExerciseLogs(w http.ResponseWriter, r *http.Request) {
	var from, to time.Time
	if v := getQueryParam(r, "from", ""); v != "" {
		parsed, err := timeutil.ParseDate(v)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_date", err.Error())
			return
		}
		from = parsed
	}
	if v := getQueryParam(r, "to", ""); v != "" {
		parsed, err := timeutil.ParseDate(v)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_date", err.Error())
			return
		}
		to = timeutil.EndOfDay(parsed)
	}

	logs, err := s.deps.GetExerciseLogs.Handle(r.Context(), query.GetExerciseLogsQuery{
		UserID: r.PathValue("id"),
		From:   from,
		To:     to,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleGetExerciseSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.deps.GetExerciseLogs.HandleSummary(r.Context(), query.GetExerciseLogsQuery{
		UserID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ══════════════════════════════════════════════════════════════════════════════
// TRAINER OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

type awardBonusRequest struct {
	TrainerID string `json:"trainer_id"`
	Amount    int    `json:"amount"`
	Reason    string `json:"reason"`
}

func (s *Server) handleAwardBonusXp(w http.ResponseWriter, r *http.Request) {
	var req awardBonusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	userID := r.PathValue("id")
	if _, err := s.deps.AwardBonusXp.Handle(r.Context(), command.AwardBonusXpCommand{
		UserID:    userID,
		Amount:    req.Amount,
		Reason:    req.Reason,
		TrainerID: req.TrainerID,
	}); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	// The response carries the full refreshed progress, not just the delta.
	snapshot, err := s.deps.GetUserProgress.Handle(r.Context(), query.GetUserProgressQuery{UserID: userID})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

type resetXpRequest struct {
	TrainerID string `json:"trainer_id"`
	NewValue  *int   `json:"new_value"`
	Reason    string `json:"reason"`
}

func (s *Server) handleResetXp(w http.ResponseWriter, r *http.Request) {
	var req resetXpRequest
	if !decodeBody(w, r, &req) {
		return
	}

	userID := r.PathValue("id")
	if _, err := s.deps.ResetXp.Handle(r.Context(), command.ResetXpCommand{
		UserID:    userID,
		NewValue:  req.NewValue,
		Reason:    req.Reason,
		TrainerID: req.TrainerID,
	}); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	snapshot, err := s.deps.GetUserProgress.Handle(r.Context(), query.GetUserProgressQuery{UserID: userID})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

type createTrainingRequest struct {
	TrainerID          string                  `json:"trainer_id"`
	Name               string                  `json:"name"`
	Description        string                  `json:"description"`
	DurationMin        int                     `json:"duration_min"`
	XpReward           int                     `json:"xp_reward"`
	Difficulty         int                     `json:"difficulty"`
	RequiresValidation bool                    `json:"requires_validation"`
	Exercises          []trainingExerciseInput `json:"exercises"`
}

type trainingExerciseInput struct {
	ExerciseID  string `json:"exercise_id"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	RestSeconds int    `json:"rest_seconds"`
	Notes       string `json:"notes"`
}

func (s *Server) handleCreateTraining(w http.ResponseWriter, r *http.Request) {
	var req createTrainingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	exercises := make([]command.TrainingExerciseInput, len(req.Exercises))
	for i, ex := range req.Exercises {
		exercises[i] = command.TrainingExerciseInput{
			ExerciseID:  ex.ExerciseID,
			Sets:        ex.Sets,
			Reps:        ex.Reps,
			RestSeconds: ex.RestSeconds,
			Notes:       ex.Notes,
		}
	}

	created, err := s.deps.CreateTraining.Handle(r.Context(), command.CreateTrainingCommand{
		TrainerID:          req.TrainerID,
		Name:               req.Name,
		Description:        req.Description,
		DurationMin:        req.DurationMin,
		XpReward:           req.XpReward,
		Difficulty:         req.Difficulty,
		RequiresValidation: req.RequiresValidation,
		Exercises:          exercises,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetTrainerTrainings(w http.ResponseWriter, r *http.Request) {
	trainings, err := s.deps.GetTrainings.HandleTrainer(r.Context(), query.GetTrainerTrainingsQuery{
		TrainerID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trainings)
}

func (s *Server) handleGetPendingValidations(w http.ResponseWriter, r *http.Request) {
	pending, err := s.deps.GetCompletions.HandlePending(r.Context(), query.GetPendingValidationsQuery{
		TrainerID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pending)
}

type validateCompletionRequest struct {
	TrainerID    string `json:"trainer_id"`
	Approved     bool   `json:"approved"`
	XpAdjustment *int   `json:"xp_adjustment"`
	Notes        string `json:"notes"`
}

func (s *Server) handleValidateCompletion(w http.ResponseWriter, r *http.Request) {
	var req validateCompletionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.ValidateCompletion.Handle(r.Context(), command.ValidateCompletionCommand{
		TrainerID:    req.TrainerID,
		CompletionID: r.PathValue("id"),
		Approved:     req.Approved,
		XpAdjustment: req.XpAdjustment,
		Notes:        req.Notes,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG & ACTIVITY
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetTrainings(w http.ResponseWriter, r *http.Request) {
	trainings, err := s.deps.GetTrainings.Handle(r.Context(), query.GetTrainingsQuery{
		UserID: getQueryParam(r, "user_id", ""),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trainings)
}

func (s *Server) handleGetTraining(w http.ResponseWriter, r *http.Request) {
	t, err := s.deps.GetTrainings.HandleOne(r.Context(), query.GetTrainingQuery{
		TrainingID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type completeTrainingRequest struct {
	UserID string `json:"user_id"`
	Notes  string `json:"notes"`
}

func (s *Server) handleCompleteTraining(w http.ResponseWriter, r *http.Request) {
	var req completeTrainingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.CompleteTraining.Handle(r.Context(), command.CompleteTrainingCommand{
		UserID:     req.UserID,
		TrainingID: r.PathValue("id"),
		Notes:      req.Notes,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type logExerciseRequest struct {
	UserID      string `json:"user_id"`
	DurationMin int    `json:"duration_min"`
	Notes       string `json:"notes"`
}

func (s *Server) handleLogExercise(w http.ResponseWriter, r *http.Request) {
	var req logExerciseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.LogExercise.Handle(r.Context(), command.LogExerciseCommand{
		UserID:      req.UserID,
		ExerciseID:  r.PathValue("id"),
		DurationMin: req.DurationMin,
		Notes:       req.Notes,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	page, err := s.deps.GetLeaderboard.Handle(r.Context(), query.GetLeaderboardQuery{
		Page:     getQueryParamInt(r, "page", 1),
		PageSize: getQueryParamInt(r, "page_size", 0),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, page.Entries, &ResponseMeta{
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	})
}

func (s *Server) handleRebuildLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.deps.Scheduler == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "scheduler_unavailable", "Scheduler is not running")
		return
	}

	result, err := s.deps.Scheduler.RunNow(r.Context(), "rebuild_leaderboard")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"job":      result.JobName,
		"duration": result.Duration.String(),
		"success":  result.Success,
	})
}
