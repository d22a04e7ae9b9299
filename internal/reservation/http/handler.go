package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mossdrift/orgshare-backend/internal/auth"
	"github.com/mossdrift/orgshare-backend/internal/identity"
	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
	"github.com/mossdrift/orgshare-backend/internal/pkg/request"
	"github.com/mossdrift/orgshare-backend/internal/pkg/response"
	"github.com/mossdrift/orgshare-backend/internal/reservation"
)

type Handler struct {
	service reservation.Service
}

func NewHandler(service reservation.Service) *Handler {
	return &Handler{service: service}
}

func principal(c *gin.Context) (identity.Principal, bool) {
	p, ok := auth.GetPrincipal(c)
	if !ok {
		response.Error(c, apperror.Permission("no acting principal resolved"))
	}
	return p, ok
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateReservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	result, err := h.service.Create(c.Request.Context(), reservation.CreateRequest{
		ResourceID: body.ResourceID,
		BorrowerID: p.UserID,
		Start:      body.StartDate,
		End:        body.EndDate,
		Note:       body.Note,
		Recurrence: body.Recurrence.toRule(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := CreateReservationResponse{
		Created:      make([]ReservationResponse, len(result.Created)),
		RequiredRole: string(result.RequiredRole),
		Warning:      result.Warning,
	}
	for i, r := range result.Created {
		resp.Created[i] = NewReservationResponse(r)
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) List(c *gin.Context) {
	var query ListReservationsRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters: "+err.Error()))
		return
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	filter := reservation.Filter{
		OrganizationID: p.OrganizationID,
		ResourceID:     query.ResourceID,
		BorrowerID:     query.BorrowerID,
		Status:         query.Status,
		Page:           query.Page,
		PageSize:       query.PageSize,
	}
	// Plain members only see their own reservations.
	if !p.Role.AtLeast(identity.RoleManager) {
		filter.BorrowerID = p.UserID
	}

	reservations, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		items[i] = NewReservationResponse(r)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

// RequiredRole tells the caller up front who will have to approve a
// reservation for the resource.
func (h *Handler) RequiredRole(c *gin.Context) {
	var query RequiredRoleRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters: "+err.Error()))
		return
	}

	role, err := h.service.RequiredRoleFor(c.Request.Context(), query.ResourceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, RequiredRoleResponse{
		ResourceID:   query.ResourceID,
		RequiredRole: string(role),
	})
}

func (h *Handler) Get(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid reservation id"))
		return
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), params.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if r.BorrowerID != p.UserID && !p.Role.AtLeast(identity.RoleManager) {
		response.Error(c, apperror.Permission("permission denied"))
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r))
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid reservation id"))
		return
	}

	var body ChangeStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	result, err := h.service.ChangeStatus(c.Request.Context(), params.ID, reservation.Status(body.Status), p)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ChangeResponse{
		Reservation: NewReservationResponse(result.Reservation),
		Warning:     result.Warning,
	})
}

func (h *Handler) SubmitReturn(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid reservation id"))
		return
	}

	var body SubmitReturnRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	result, err := h.service.SubmitReturn(c.Request.Context(), params.ID, p, body.Note)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ChangeResponse{
		Reservation: NewReservationResponse(result.Reservation),
		Warning:     result.Warning,
	})
}

func (h *Handler) VerifyReturn(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid reservation id"))
		return
	}

	var body VerifyReturnRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body: "+err.Error()))
		return
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	result, err := h.service.VerifyReturn(c.Request.Context(), params.ID,
		reservation.ReturnStatus(body.Decision), reservation.Condition(body.Condition), p)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ChangeResponse{
		Reservation: NewReservationResponse(result.Reservation),
		Warning:     result.Warning,
	})
}
