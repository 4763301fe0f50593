package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"review-service/internal/app/middleware"
	"review-service/internal/domain"
)

type teamService interface {
	CreateTeam(ctx context.Context, teamName string, members []domain.User) (domain.Team, error)
	GetTeam(ctx context.Context, teamName string) (domain.Team, error)
}

// TeamHandler handles team-related HTTP requests
type TeamHandler struct {
	service  teamService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(service teamService, validate *validator.Validate, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{
		service:  service,
		validate: validate,
		logger:   logger,
	}
}

// Team DTOs matching OpenAPI schema with snake_case

type TeamMemberDTO struct {
	UserID   string `json:"user_id" validate:"required"`
	Username string `json:"username" validate:"required"`
	IsActive bool   `json:"is_active"`
}

type CreateTeamRequest struct {
	TeamName string          `json:"team_name" validate:"required"`
	Members  []TeamMemberDTO `json:"members" validate:"required,min=1,dive"`
}

type TeamResponse struct {
	TeamName string          `json:"team_name"`
	Members  []TeamMemberDTO `json:"members"`
}

// AddTeam handles POST /team/add
func (h *TeamHandler) AddTeam(w http.ResponseWriter, r *http.Request) {
	var req CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, domain.ErrInvalidArgument, h.logger)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		middleware.WriteErrorResponse(w, domain.ErrInvalidArgument, h.logger)
		return
	}

	members := make([]domain.User, len(req.Members))
	for i, m := range req.Members {
		members[i] = domain.User{
			UserID:   m.UserID,
			Username: m.Username,
			TeamName: req.TeamName,
			IsActive: m.IsActive,
		}
	}

	createdTeam, err := h.service.CreateTeam(r.Context(), req.TeamName, members)
	if err != nil {
		middleware.WriteErrorResponse(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, mapTeamToResponse(createdTeam))
}

// GetTeam handles GET /team/get?team_name=...
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamName := r.URL.Query().Get("team_name")
	if teamName == "" {
		middleware.WriteErrorResponse(w, domain.ErrInvalidArgument, h.logger)
		return
	}

	team, err := h.service.GetTeam(r.Context(), teamName)
	if err != nil {
		middleware.WriteErrorResponse(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, mapTeamToResponse(team))
}

func mapTeamToResponse(team domain.Team) TeamResponse {
	members := make([]TeamMemberDTO, len(team.Members))
	for i, m := range team.Members {
		members[i] = TeamMemberDTO{
			UserID:   m.UserID,
			Username: m.Username,
			IsActive: m.IsActive,
		}
	}
	return TeamResponse{
		TeamName: team.TeamName,
		Members:  members,
	}
}
