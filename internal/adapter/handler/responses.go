package handler

import (
	"time"

	"github.com/srgjo27/gym_booking/internal/core/domain"
	"github.com/srgjo27/gym_booking/internal/core/services"
)

type ClassResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Type           string `json:"type"`
	InstructorID   string `json:"instructor_id"`
	InstructorName string `json:"instructor_name"`
	StartsAt       string `json:"starts_at"`
	EndsAt         string `json:"ends_at"`
	Location       string `json:"location,omitempty"`
	Capacity       int    `json:"capacity"`
	Enrolled       int    `json:"enrolled"`
	Available      int    `json:"available"`
	Status         string `json:"status"`
}

type ClassViewResponse struct {
	ClassResponse
	BookedByViewer  bool   `json:"booked_by_viewer"`
	ViewerBookingID string `json:"viewer_booking_id,omitempty"`
}

type BookingResponse struct {
	ID        string `json:"id"`
	ClassID   string `json:"class_id"`
	ClassName string `json:"class_name"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type AttendanceResponse struct {
	ID          string `json:"id"`
	RollCallID  string `json:"roll_call_id"`
	ClassID     string `json:"class_id"`
	MemberID    string `json:"member_id"`
	MemberName  string `json:"member_name,omitempty"`
	TrainerID   string `json:"trainer_id"`
	Present     bool   `json:"present"`
	SessionDate string `json:"session_date"`
}

type RollCallResponse struct {
	RollCallID string               `json:"roll_call_id"`
	Recorded   []AttendanceResponse `json:"recorded"`
	Failed     map[string]string    `json:"failed,omitempty"`
	Unmatched  []string             `json:"unmatched,omitempty"`
	Error      string               `json:"error,omitempty"`
}

func toClassResponse(c domain.GymClass) ClassResponse {
	return ClassResponse{
		ID:             c.ID.String(),
		Name:           c.Name,
		Description:    c.Description,
		Type:           c.Type,
		InstructorID:   c.InstructorID,
		InstructorName: c.InstructorName,
		StartsAt:       c.StartsAt.Format(time.RFC3339),
		EndsAt:         c.EndsAt.Format(time.RFC3339),
		Location:       c.Location,
		Capacity:       c.Capacity,
		Enrolled:       c.Enrolled,
		Available:      c.Available(),
		Status:         string(c.Status),
	}
}

func toClassViewResponse(v services.ClassView) ClassViewResponse {
	resp := ClassViewResponse{
		ClassResponse:  toClassResponse(v.Class),
		BookedByViewer: v.BookedByViewer,
	}
	resp.Available = v.Available
	if v.ViewerBookingID != nil {
		resp.ViewerBookingID = v.ViewerBookingID.String()
	}
	return resp
}

func toClassViewResponses(views []services.ClassView) []ClassViewResponse {
	out := make([]ClassViewResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toClassViewResponse(v))
	}
	return out
}

func toBookingResponse(b domain.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID.String(),
		ClassID:   b.ClassID.String(),
		ClassName: b.ClassName,
		UserID:    b.UserID,
		UserName:  b.UserName,
		UserEmail: b.UserEmail,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

func toBookingResponses(bookings []domain.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	return out
}

func toAttendanceResponses(records []domain.AttendanceRecord) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(records))
	for _, r := range records {
		out = append(out, AttendanceResponse{
			ID:          r.ID.String(),
			RollCallID:  r.RollCallID.String(),
			ClassID:     r.ClassID.String(),
			MemberID:    r.MemberID,
			MemberName:  r.MemberName,
			TrainerID:   r.TrainerID,
			Present:     r.Present,
			SessionDate: r.SessionDate.Format(time.RFC3339),
		})
	}
	return out
}

func toRollCallResponse(r *domain.RollCallResult) RollCallResponse {
	resp := RollCallResponse{
		RollCallID: r.RollCallID.String(),
		Recorded:   toAttendanceResponses(r.Recorded),
		Unmatched:  r.Unmatched,
	}
	if len(r.Failed) > 0 {
		resp.Failed = make(map[string]string, len(r.Failed))
		for member, err := range r.Failed {
			resp.Failed[member] = err.Error()
		}
	}
	return resp
}
