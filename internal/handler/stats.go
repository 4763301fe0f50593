package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"review-service/internal/app/middleware"
	"review-service/internal/domain"
)

type statsService interface {
	GetStatistics(ctx context.Context) (domain.Statistics, error)
}

// StatsHandler handles statistics endpoints
type StatsHandler struct {
	service statsService
	logger  *zap.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service statsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger,
	}
}

type prStatsDTO struct {
	TotalPRs  int `json:"total_prs"`
	OpenPRs   int `json:"open_prs"`
	MergedPRs int `json:"merged_prs"`
}

type userReviewStatsDTO struct {
	UserID           string `json:"user_id"`
	Username         string `json:"username"`
	AssignmentsCount int    `json:"assignments_count"`
}

type statisticsResponse struct {
	PRStats         prStatsDTO           `json:"pr_stats"`
	UserReviewStats []userReviewStatsDTO `json:"user_review_stats"`
}

// GetStatistics handles GET /statistics
func (h *StatsHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	statistics, err := h.service.GetStatistics(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, err, h.logger)
		return
	}

	userStats := make([]userReviewStatsDTO, len(statistics.UserReviewStats))
	for i, s := range statistics.UserReviewStats {
		userStats[i] = userReviewStatsDTO{
			UserID:           s.UserID,
			Username:         s.Username,
			AssignmentsCount: s.AssignmentsCount,
		}
	}

	writeJSON(w, http.StatusOK, statisticsResponse{
		PRStats: prStatsDTO{
			TotalPRs:  statistics.PRStats.TotalPRs,
			OpenPRs:   statistics.PRStats.OpenPRs,
			MergedPRs: statistics.PRStats.MergedPRs,
		},
		UserReviewStats: userStats,
	})
}
