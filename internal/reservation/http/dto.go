package http

import (
	"time"

	"github.com/mossdrift/orgshare-backend/internal/pkg/request"
	"github.com/mossdrift/orgshare-backend/internal/reservation"
)

// ListReservationsRequest defines query parameters for listing reservations.
type ListReservationsRequest struct {
	request.ListParams
	ResourceID string `form:"resource_id" binding:"omitempty,uuid"`
	BorrowerID string `form:"borrower_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=pending approved returned rejected"`
}

type RecurrenceBody struct {
	Type       string    `json:"type" binding:"required,oneof=none weekly monthly"`
	Interval   int       `json:"interval" binding:"omitempty,min=1"`
	EndDate    time.Time `json:"end_date"`
	Weekdays   []int     `json:"weekdays" binding:"omitempty,dive,min=0,max=6"`
	DayOfMonth int       `json:"day_of_month" binding:"omitempty,min=1,max=31"`
}

func (b *RecurrenceBody) toRule() *reservation.Rule {
	if b == nil {
		return nil
	}
	rule := &reservation.Rule{
		Type:       reservation.RuleType(b.Type),
		Interval:   b.Interval,
		EndDate:    b.EndDate,
		DayOfMonth: b.DayOfMonth,
	}
	for _, wd := range b.Weekdays {
		rule.Weekdays = append(rule.Weekdays, time.Weekday(wd))
	}
	return rule
}

type CreateReservationRequest struct {
	ResourceID string          `json:"resource_id" binding:"required,uuid"`
	StartDate  time.Time       `json:"start_date" binding:"required"`
	EndDate    time.Time       `json:"end_date" binding:"required"`
	Note       *string         `json:"note"`
	Recurrence *RecurrenceBody `json:"recurrence"`
}

// RequiredRoleRequest asks which role may approve reservations for a resource.
type RequiredRoleRequest struct {
	ResourceID string `form:"resource_id" binding:"required,uuid"`
}

type RequiredRoleResponse struct {
	ResourceID   string `json:"resource_id"`
	RequiredRole string `json:"required_role"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected returned"`
}

type SubmitReturnRequest struct {
	Note *string `json:"note"`
}

type VerifyReturnRequest struct {
	Decision  string `json:"decision" binding:"required,oneof=verified rejected"`
	Condition string `json:"condition" binding:"required,oneof=good damaged missing_parts dirty other"`
}

type ReservationResponse struct {
	ID             string     `json:"id"`
	ResourceID     string     `json:"resource_id"`
	BorrowerID     string     `json:"borrower_id"`
	OrganizationID string     `json:"organization_id"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	Status         string     `json:"status"`
	Note           *string    `json:"note,omitempty"`
	ParentID       *string    `json:"parent_id,omitempty"`
	ReturnStatus   string     `json:"return_status"`
	ReturnNote     *string    `json:"return_note,omitempty"`
	Condition      *string    `json:"return_condition,omitempty"`
	SubmittedAt    *time.Time `json:"return_submitted_at,omitempty"`
	VerifiedBy     *string    `json:"verified_by,omitempty"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func NewReservationResponse(r *reservation.Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID:             r.ID,
		ResourceID:     r.ResourceID,
		BorrowerID:     r.BorrowerID,
		OrganizationID: r.OrganizationID,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		Status:         string(r.Status),
		Note:           r.Note,
		ParentID:       r.ParentID,
		ReturnStatus:   string(r.ReturnStatus),
		ReturnNote:     r.ReturnNote,
		SubmittedAt:    r.ReturnSubmittedAt,
		VerifiedBy:     r.VerifiedBy,
		VerifiedAt:     r.VerifiedAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.ReturnCondition != nil {
		cond := string(*r.ReturnCondition)
		resp.Condition = &cond
	}
	return resp
}

type CreateReservationResponse struct {
	Created      []ReservationResponse `json:"created"`
	RequiredRole string                `json:"required_role"`
	Warning      string                `json:"warning,omitempty"`
}

type ChangeResponse struct {
	Reservation ReservationResponse `json:"reservation"`
	Warning     string              `json:"warning,omitempty"`
}
