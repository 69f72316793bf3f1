package services

import (
	"context"
	"log"
	"sort"

	"github.com/google/uuid"
	"github.com/srgjo27/gym_booking/internal/core/domain"
	"github.com/srgjo27/gym_booking/internal/core/ports"
	"github.com/srgjo27/gym_booking/internal/platform/clock"
)

type AttendanceService struct {
	classRepo      ports.ClassRepository
	attendanceRepo ports.AttendanceRepository
	bookings       *BookingService
	clock          clock.Clock
	hooks          Hooks
}

func NewAttendanceService(classRepo ports.ClassRepository, attendanceRepo ports.AttendanceRepository, bookings *BookingService, clk clock.Clock, hooks Hooks) *AttendanceService {
	return &AttendanceService{
		classRepo:      classRepo,
		attendanceRepo: attendanceRepo,
		bookings:       bookings,
		clock:          clk,
		hooks:          hooks,
	}
}

// RecordAttendance runs one roll-call. Every member holding a seat gets a
// record; present members with a booked booking are marked attended. Members
// are processed independently and failures never undo other members' work.
func (s *AttendanceService) RecordAttendance(ctx context.Context, actor domain.Actor, classID uuid.UUID, presentMemberIDs []string) (*domain.RollCallResult, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}

	if !actor.CanManage(*class) {
		return nil, domain.ErrForbidden
	}

	now := s.clock.Now()
	if domain.DeriveStatus(*class, now) == domain.ClassCancelled {
		return nil, domain.NewError(domain.KindInvalidTransition, "class was cancelled")
	}
	if !class.HasStarted(now) {
		return nil, domain.NewError(domain.KindInvalidTransition, "attendance can only be taken once the class has started")
	}

	bookings, err := s.bookings.ListByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	// One seat-holding booking per member.
	byMember := make(map[string]*domain.Booking)
	for i := range bookings {
		b := &bookings[i]
		if !b.HoldsSeat() {
			continue
		}
		if prev, ok := byMember[b.UserID]; ok && prev.CreatedAt.After(b.CreatedAt) {
			continue
		}
		byMember[b.UserID] = b
	}

	members := make([]string, 0, len(byMember))
	for id := range byMember {
		members = append(members, id)
	}
	sort.Strings(members)

	present := make(map[string]bool, len(presentMemberIDs))
	for _, id := range presentMemberIDs {
		present[id] = true
	}

	result := &domain.RollCallResult{
		RollCallID: uuid.New(),
		Failed:     make(map[string]error),
	}

	for _, memberID := range members {
		b := byMember[memberID]
		record := domain.AttendanceRecord{
			ID:          uuid.New(),
			RollCallID:  result.RollCallID,
			ClassID:     classID,
			ClassName:   class.Name,
			MemberID:    memberID,
			MemberName:  b.UserName,
			TrainerID:   actor.UserID,
			Present:     present[memberID],
			SessionDate: class.StartsAt,
			CreatedAt:   now,
		}

		if err := s.attendanceRepo.Append(ctx, &record); err != nil {
			log.Printf("roll-call %s: record for member %s failed: %v", result.RollCallID, memberID, err)
			result.Failed[memberID] = err
			continue
		}
		result.Recorded = append(result.Recorded, record)

		if record.Present && b.IsActive() {
			if err := s.bookings.markAttended(ctx, b, class); err != nil {
				log.Printf("roll-call %s: mark attended for member %s failed: %v", result.RollCallID, memberID, err)
				result.Failed[memberID] = err
			}
		}
	}

	for _, id := range presentMemberIDs {
		if _, ok := byMember[id]; !ok {
			result.Unmatched = append(result.Unmatched, id)
		}
	}

	s.hooks.afterWrite(ctx, ports.Event{
		Type:    ports.EventAttendanceRecorded,
		ClassID: classID.String(),
		UserID:  actor.UserID,
		Attributes: map[string]any{
			"roll_call_id": result.RollCallID.String(),
			"recorded":     len(result.Recorded),
			"failed":       len(result.Failed),
		},
		OccurredAt: now,
	})

	if result.HasFailures() {
		return result, domain.NewError(domain.KindPartialFailure,
			"%d of %d attendance records failed", len(result.Failed), len(members))
	}
	return result, nil
}

func (s *AttendanceService) ListAttendance(ctx context.Context, classID uuid.UUID) ([]domain.AttendanceRecord, error) {
	if _, err := s.classRepo.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	return s.attendanceRepo.ListByClass(ctx, classID)
}
