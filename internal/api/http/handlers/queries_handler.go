package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/query-triage/internal/api/dto"
	"github.com/spec-kit/query-triage/internal/domain"
	"github.com/spec-kit/query-triage/internal/service"
	apperrors "github.com/spec-kit/query-triage/pkg/util/errorutil"
)

// QueriesHandler manages query triage endpoints.
type QueriesHandler struct {
	service *service.QueryService
}

// NewQueriesHandler constructs handler.
func NewQueriesHandler(queryService *service.QueryService) *QueriesHandler {
	return &QueriesHandler{service: queryService}
}

// CreateQuery POST /queries.
func (h *QueriesHandler) CreateQuery(c *fiber.Ctx) error {
	var req dto.CreateQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	query, err := h.service.Create(c.UserContext(), service.QueryCreateInput{
		Channel:     req.Channel,
		SenderName:  req.SenderName,
		SenderEmail: req.SenderEmail,
		Subject:     req.Subject,
		Content:     req.Content,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": queryResponse(query)})
}

// ListQueries GET /queries.
func (h *QueriesHandler) ListQueries(c *fiber.Ctx) error {
	filter := parseQueryListFilter(c)
	queries, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.QueryResponse, 0, len(queries))
	for i := range queries {
		items = append(items, queryResponse(&queries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetQuery GET /queries/:id.
func (h *QueriesHandler) GetQuery(c *fiber.Ctx) error {
	detail, err := h.service.GetWithHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": queryDetailResponse(detail)})
}

// UpdateQuery PUT /queries/:id.
func (h *QueriesHandler) UpdateQuery(c *fiber.Ctx) error {
	var req dto.UpdateQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	query, err := h.service.Update(c.UserContext(), c.Params("id"), service.QueryUpdateInput{
		Status:     req.Status,
		Priority:   req.Priority,
		AssignedTo: req.AssignedTo,
		Tags:       req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": queryResponse(query)})
}

// DeleteQuery DELETE /queries/:id.
func (h *QueriesHandler) DeleteQuery(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "query deleted"})
}

// BulkUpdate POST /queries/bulk.
func (h *QueriesHandler) BulkUpdate(c *fiber.Ctx) error {
	var req dto.BulkRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	affected, err := h.service.BulkApply(c.UserContext(), service.BulkInput{
		Action:     req.Action,
		IDs:        req.QueryIDs,
		AssignedTo: req.AssignedTo,
		Status:     req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BulkResponse{Affected: affected}})
}

// ListTeams GET /teams.
func (h *QueriesHandler) ListTeams(c *fiber.Ctx) error {
	teams, err := h.service.ListTeams(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TeamResponse, 0, len(teams))
	for _, team := range teams {
		items = append(items, dto.TeamResponse{ID: team.ID, Name: team.Name, Email: team.Email})
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseQueryListFilter(c *fiber.Ctx) service.QueryListFilter {
	filter := service.QueryListFilter{
		SortBy:    c.Query("sort", "created_at"),
		SortOrder: c.Query("order", "DESC"),
	}
	if status := c.Query("status"); status != "" {
		value := domain.QueryStatus(status)
		filter.Status = &value
	}
	if priority := c.Query("priority"); priority != "" {
		value := domain.QueryPriority(priority)
		filter.Priority = &value
	}
	if channel := c.Query("channel"); channel != "" {
		value := domain.QueryChannel(channel)
		filter.Channel = &value
	}
	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		filter.AssignedTo = &assignedTo
	}
	if tag := c.Query("tag"); tag != "" {
		filter.Tag = &tag
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	return filter
}

func queryResponse(query *domain.Query) dto.QueryResponse {
	return dto.QueryResponse{
		ID:           query.ID,
		Channel:      query.Channel,
		SenderName:   query.SenderName,
		SenderEmail:  query.SenderEmail,
		Subject:      query.Subject,
		Content:      query.Content,
		Tags:         query.Tags,
		Priority:     query.Priority,
		Status:       query.Status,
		AssignedTo:   query.AssignedTo,
		CreatedAt:    query.CreatedAt,
		UpdatedAt:    query.UpdatedAt,
		ResolvedAt:   query.ResolvedAt,
		ResponseTime: query.ResponseTime,
	}
}

func queryDetailResponse(detail *service.QueryDetail) dto.QueryDetailResponse {
	response := dto.QueryDetailResponse{
		QueryResponse: queryResponse(detail.Query),
		Assignments:   make([]dto.AssignmentResponse, 0, len(detail.Assignments)),
		StatusHistory: make([]dto.StatusChangeResponse, 0, len(detail.StatusHistory)),
	}
	for _, assignment := range detail.Assignments {
		response.Assignments = append(response.Assignments, dto.AssignmentResponse{
			ID:         assignment.ID,
			QueryID:    assignment.QueryID,
			AssignedTo: assignment.AssignedTo,
			AssignedAt: assignment.AssignedAt,
		})
	}
	for _, change := range detail.StatusHistory {
		response.StatusHistory = append(response.StatusHistory, dto.StatusChangeResponse{
			ID:        change.ID,
			QueryID:   change.QueryID,
			OldStatus: change.OldStatus,
			NewStatus: change.NewStatus,
			ChangedAt: change.ChangedAt,
			Notes:     change.Notes,
		})
	}
	return response
}
