// Package api exposes the assessment engine and history store over HTTP.
package api

import (
	"net/http"
	"strconv"

	"github.com/Veraticus/soilsense/internal/engine"
	"github.com/Veraticus/soilsense/internal/model"
	"github.com/Veraticus/soilsense/internal/service"
	"github.com/gin-gonic/gin"
)

// Handler serves the v1 API. The store is optional; without it assessments are not
// persisted and history routes return 503.
type Handler struct {
	assessor  service.Assessor
	store     service.Storage
	profiles  func() []model.FertilizerProfile
	persisted bool
}

// NewHandler creates a handler. store may be nil.
func NewHandler(assessor service.Assessor, store service.Storage, profiles func() []model.FertilizerProfile) *Handler {
	return &Handler{assessor: assessor, store: store, profiles: profiles, persisted: store != nil}
}

// AssessRequest is the body of POST /v1/assessments.
type AssessRequest struct {
	FieldID string `json:"field_id"`
	engine.Request
}

// CompareRequest is the body of POST /v1/comparisons and /v1/recommendations.
type CompareRequest struct {
	Conditions *model.FieldConditions      `json:"field_conditions,omitempty"`
	Weights    *model.PriorityWeights      `json:"priority_weights,omitempty"`
	FieldID    string                      `json:"field_id"`
	Candidates []model.FertilizerCandidate `json:"candidates"`
	Soil       model.SoilState             `json:"soil"`
}

// AssessResponse wraps an assessment with its history ID.
type AssessResponse struct {
	ID         string                     `json:"id,omitempty"`
	Assessment model.SoilHealthAssessment `json:"assessment"`
}

// CompareResponse wraps a ranked comparison with its history ID.
type CompareResponse struct {
	ComparisonID string                   `json:"comparison_id,omitempty"`
	Rankings     []model.RankedAssessment `json:"rankings"`
}

// CreateAssessment assesses one fertilizer plan.
func (h *Handler) CreateAssessment(c *gin.Context) {
	var req AssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	a, err := h.assessor.AssessSoilHealthImpact(c.Request.Context(), req.Request)
	if err != nil {
		failWith(c, err)
		return
	}

	resp := AssessResponse{Assessment: a}
	if h.persisted {
		record := &model.AssessmentRecord{FieldID: req.FieldID, Assessment: a}
		if err := h.store.SaveAssessment(c.Request.Context(), record); err != nil {
			failWith(c, err)
			return
		}
		resp.ID = record.ID
	}
	created(c, resp)
}

// CreateComparison ranks candidate fertilizers on one soil.
func (h *Handler) CreateComparison(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ranked, err := h.assessor.CompareFertilizers(c.Request.Context(), req.Candidates, req.Soil, req.Conditions)
	if err != nil {
		failWith(c, err)
		return
	}

	resp := CompareResponse{Rankings: ranked}
	if h.persisted {
		id, err := h.store.SaveComparison(c.Request.Context(), req.FieldID, ranked)
		if err != nil {
			failWith(c, err)
			return
		}
		resp.ComparisonID = id
	}
	created(c, resp)
}

// CreateRecommendation returns a priority-weighted recommendation.
func (h *Handler) CreateRecommendation(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	weights := model.PriorityWeights{SoilHealth: 1}
	if req.Weights != nil {
		weights = *req.Weights
	}

	payload, err := h.assessor.OptimizeRecommendation(c.Request.Context(), req.Candidates, req.Soil, req.Conditions, weights)
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, payload)
}

// GetAssessment returns a stored assessment.
func (h *Handler) GetAssessment(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}
	record, err := h.store.GetAssessment(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWith(c, err)
		return
	}
	success(c, record)
}

// ListAssessments returns stored assessments, newest first.
func (h *Handler) ListAssessments(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}

	filter := service.HistoryFilter{
		FieldID:       c.Query("field_id"),
		FertilizerKey: c.Query("fertilizer"),
	}
	var err error
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.store.ListAssessments(c.Request.Context(), filter)
	if err != nil {
		failWith(c, err)
		return
	}
	if records == nil {
		records = []model.AssessmentRecord{}
	}
	success(c, records)
}

// ListFertilizers returns the knowledge base profiles.
func (h *Handler) ListFertilizers(c *gin.Context) {
	success(c, h.profiles())
}

func (h *Handler) requireStore(c *gin.Context) bool {
	if !h.persisted {
		fail(c, http.StatusServiceUnavailable, "assessment history is not configured")
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, &queryError{key: key, value: raw}
	}
	return v, nil
}

type queryError struct {
	key, value string
}

func (e *queryError) Error() string {
	return "invalid " + e.key + " " + strconv.Quote(e.value)
}
