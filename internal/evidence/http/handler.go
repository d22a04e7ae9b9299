package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mossdrift/orgshare-backend/internal/auth"
	"github.com/mossdrift/orgshare-backend/internal/evidence"
	"github.com/mossdrift/orgshare-backend/internal/pkg/apperror"
	"github.com/mossdrift/orgshare-backend/internal/pkg/request"
	"github.com/mossdrift/orgshare-backend/internal/pkg/response"
	"github.com/mossdrift/orgshare-backend/internal/reservation"
)

type Handler struct {
	service      evidence.Service
	reservations reservation.Service
}

func NewHandler(service evidence.Service, reservations reservation.Service) *Handler {
	return &Handler{service: service, reservations: reservations}
}

// Upload attaches a return photo to the caller's own reservation.
func (h *Handler) Upload(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid reservation id"))
		return
	}

	userID := auth.GetUserID(c)
	r, err := h.reservations.GetByID(c.Request.Context(), params.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if r.BorrowerID != userID {
		response.Error(c, evidence.ErrWrongOwner)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, apperror.Validation("missing file upload"))
		return
	}

	e, err := h.service.Upload(c.Request.Context(), header, params.ID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewEvidenceResponse(e))
}

func (h *Handler) ListByReservation(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid reservation id"))
		return
	}

	items, err := h.service.ListByReservation(c.Request.Context(), params.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make([]EvidenceResponse, len(items))
	for i, e := range items {
		resp[i] = NewEvidenceResponse(e)
	}

	c.JSON(http.StatusOK, gin.H{"items": resp})
}

func (h *Handler) Download(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid evidence id"))
		return
	}

	stream, e, err := h.service.Download(c.Request.Context(), params.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Disposition", `inline; filename="`+e.Filename+`"`)
	c.Header("Content-Length", strconv.FormatInt(e.Size, 10))
	c.DataFromReader(http.StatusOK, e.Size, e.ContentType, stream, nil)
}

func (h *Handler) DownloadThumbnail(c *gin.Context) {
	var params request.ByIDRequest
	if err := c.ShouldBindUri(&params); err != nil {
		response.Error(c, apperror.Validation("invalid evidence id"))
		return
	}

	stream, _, err := h.service.DownloadThumbnail(c.Request.Context(), params.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.DataFromReader(http.StatusOK, -1, "image/jpeg", stream, nil)
}
