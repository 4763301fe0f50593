package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"review-service/internal/app/middleware"
	"review-service/internal/domain"
)

type userService interface {
	SetIsActive(ctx context.Context, userID string, isActive bool) (domain.User, int, error)
	BulkDeactivateTeamMembers(ctx context.Context, teamName string, userIDs []string) ([]domain.User, int, error)
	GetUserReviews(ctx context.Context, userID string) ([]domain.PullRequest, error)
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	service  userService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(service userService, validate *validator.Validate, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validate,
		logger:   logger,
	}
}

// User DTOs matching OpenAPI schema with snake_case

type SetIsActiveRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	IsActive *bool  `json:"is_active" validate:"required"`
}

type BulkDeactivateRequest struct {
	TeamName string   `json:"team_name" validate:"required"`
	UserIDs  []string `json:"user_ids" validate:"required,min=1"`
}

type UserResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	TeamName string `json:"team_name"`
	IsActive bool   `json:"is_active"`
}

type PullRequestShort struct {
	PullRequestID   string `json:"pull_request_id"`
	PullRequestName string `json:"pull_request_name"`
	AuthorID        string `json:"author_id"`
	Status          string `json:"status"`
}

type setIsActiveResponse struct {
	User          UserResponse `json:"user"`
	ReassignedPRs int          `json:"reassigned_prs"`
}

type getReviewResponse struct {
	UserID       string             `json:"user_id"`
	PullRequests []PullRequestShort `json:"pull_requests"`
}

type bulkDeactivateResponse struct {
	DeactivatedUsers []UserResponse `json:"deactivated_users"`
	ReassignedPRs    int            `json:"reassigned_prs"`
}

// SetIsActive handles POST /users/setIsActive
func (h *UserHandler) SetIsActive(w http.ResponseWriter, r *http.Request) {
	var req SetIsActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, domain.ErrInvalidArgument, h.logger)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		middleware.WriteErrorResponse(w, domain.ErrInvalidArgument, h.logger)
		return
	}

	user, reassigned, err := h.service.SetIsActive(r.Context(), req.UserID, *req.IsActive)
	if err != nil {
		middleware.WriteErrorResponse(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, setIsActiveResponse{
		User:          mapUserToResponse(user),
		ReassignedPRs: reassigned,
	})
}

// GetReview handles GET /users/getReview?user_id=...
func (h *UserHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		middleware.WriteErrorResponse(w, domain.ErrInvalidArgument, h.logger)
		return
	}

	prs, err := h.service.GetUserReviews(r.Context(), userID)
	if err != nil {
		middleware.WriteErrorResponse(w, err, h.logger)
		return
	}

	result := make([]PullRequestShort, len(prs))
	for i, pr := range prs {
		result[i] = PullRequestShort{
			PullRequestID:   pr.PullRequestID,
			PullRequestName: pr.PullRequestName,
			AuthorID:        pr.AuthorID,
			Status:          string(pr.Status),
		}
	}

	writeJSON(w, http.StatusOK, getReviewResponse{
		UserID:       userID,
		PullRequests: result,
	})
}

// BulkDeactivate handles POST /users/bulkDeactivate
func (h *UserHandler) BulkDeactivate(w http.ResponseWriter, r *http.Request) {
	var req BulkDeactivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, domain.ErrInvalidArgument, h.logger)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		middleware.WriteErrorResponse(w, domain.ErrInvalidArgument, h.logger)
		return
	}

	users, reassigned, err := h.service.BulkDeactivateTeamMembers(r.Context(), req.TeamName, req.UserIDs)
	if err != nil {
		middleware.WriteErrorResponse(w, err, h.logger)
		return
	}

	deactivated := make([]UserResponse, len(users))
	for i, u := range users {
		deactivated[i] = mapUserToResponse(u)
	}

	writeJSON(w, http.StatusOK, bulkDeactivateResponse{
		DeactivatedUsers: deactivated,
		ReassignedPRs:    reassigned,
	})
}

func mapUserToResponse(user domain.User) UserResponse {
	return UserResponse{
		UserID:   user.UserID,
		Username: user.Username,
		TeamName: user.TeamName,
		IsActive: user.IsActive,
	}
}
