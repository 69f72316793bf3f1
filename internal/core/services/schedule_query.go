package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/gym_booking/internal/core/domain"
	"github.com/srgjo27/gym_booking/internal/core/ports"
	"github.com/srgjo27/gym_booking/internal/platform/clock"
)

type Day string

const (
	DayAll      Day = "all"
	DayToday    Day = "today"
	DayTomorrow Day = "tomorrow"
)

type ScheduleFilter struct {
	Day Day
	// Date selects a single calendar day and overrides Day.
	Date         *time.Time
	UpcomingOnly bool
	Type         string
	InstructorID string
	Search       string
	ViewerID     string
}

type ClassView struct {
	Class           domain.GymClass `json:"class"`
	Available       int             `json:"available"`
	BookedByViewer  bool            `json:"booked_by_viewer"`
	ViewerBookingID *uuid.UUID      `json:"viewer_booking_id,omitempty"`
}

// ScheduleQuery is the read side used to render schedules. It never writes
// to the repositories.
type ScheduleQuery struct {
	classRepo   ports.ClassRepository
	bookingRepo ports.BookingRepository
	cache       ports.ScheduleCache
	clock       clock.Clock
	loc         *time.Location
}

func NewScheduleQuery(classRepo ports.ClassRepository, bookingRepo ports.BookingRepository, cache ports.ScheduleCache, clk clock.Clock, loc *time.Location) *ScheduleQuery {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleQuery{
		classRepo:   classRepo,
		bookingRepo: bookingRepo,
		cache:       cache,
		clock:       clk,
		loc:         loc,
	}
}

func (q *ScheduleQuery) ListClasses(ctx context.Context, f ScheduleFilter) ([]ClassView, error) {
	now := q.clock.Now()
	repoFilter := ports.ClassFilter{
		Type:         strings.ToLower(strings.TrimSpace(f.Type)),
		InstructorID: strings.TrimSpace(f.InstructorID),
	}
	repoFilter.From, repoFilter.To = q.window(f, now)

	classes, err := q.loadClasses(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.GymClass, 0, len(classes))
	for _, c := range classes {
		if f.UpcomingOnly && !now.Before(c.EndsAt) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.InstructorName), search) {
			continue
		}
		c.Status = domain.DeriveStatus(c, now)
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartsAt.Before(out[j].StartsAt)
	})

	return q.annotate(ctx, out, f.ViewerID)
}

// GetClass returns a single class view annotated for viewerID.
func (q *ScheduleQuery) GetClass(ctx context.Context, id uuid.UUID, viewerID string) (*ClassView, error) {
	class, err := q.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	class.Status = domain.DeriveStatus(*class, q.clock.Now())

	views, err := q.annotate(ctx, []domain.GymClass{*class}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// UpcomingForUser lists the classes the user holds a booked seat in that
// have not ended yet.
func (q *ScheduleQuery) UpcomingForUser(ctx context.Context, userID string) ([]ClassView, error) {
	bookings, err := q.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := q.clock.Now()
	views := make([]ClassView, 0, len(bookings))
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		class, err := q.classRepo.GetByID(ctx, b.ClassID)
		if err != nil {
			return nil, err
		}
		if !now.Before(class.EndsAt) {
			continue
		}
		class.Status = domain.DeriveStatus(*class, now)
		if class.Status == domain.ClassCancelled {
			continue
		}
		id := b.ID
		views = append(views, ClassView{
			Class:           *class,
			Available:       class.Available(),
			BookedByViewer:  true,
			ViewerBookingID: &id,
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Class.StartsAt.Before(views[j].Class.StartsAt)
	})
	return views, nil
}

func (q *ScheduleQuery) window(f ScheduleFilter, now time.Time) (time.Time, time.Time) {
	var day time.Time
	switch {
	case f.Date != nil:
		day = f.Date.In(q.loc)
	case f.Day == DayToday:
		day = now.In(q.loc)
	case f.Day == DayTomorrow:
		day = now.In(q.loc).AddDate(0, 0, 1)
	default:
		return time.Time{}, time.Time{}
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, q.loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

func (q *ScheduleQuery) loadClasses(ctx context.Context, filter ports.ClassFilter) ([]domain.GymClass, error) {
	key := cacheKey(filter)
	var (
		gen       int64
		cacheable bool
	)
	if q.cache != nil {
		classes, g, ok, err := q.cachedClasses(ctx, key)
		switch {
		case err != nil:
			log.Printf("schedule cache read failed: %v", err)
		case ok:
			return classes, nil
		default:
			gen, cacheable = g, true
		}
	}

	classes, err := q.classRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := q.cache.SetClasses(ctx, gen, key, classes); err != nil {
			log.Printf("schedule cache write failed: %v", err)
		}
	}
	return classes, nil
}

// cachedClasses looks key up under the current generation and returns that
// generation so a miss can be filled under it.
func (q *ScheduleQuery) cachedClasses(ctx context.Context, key string) ([]domain.GymClass, int64, bool, error) {
	gen, err := q.cache.Generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}
	classes, ok, err := q.cache.GetClasses(ctx, gen, key)
	return classes, gen, ok, err
}

func (q *ScheduleQuery) annotate(ctx context.Context, classes []domain.GymClass, viewerID string) ([]ClassView, error) {
	booked := make(map[uuid.UUID]uuid.UUID)
	if viewerID != "" {
		bookings, err := q.bookingRepo.ListByUser(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		for _, b := range bookings {
			if b.IsActive() {
				booked[b.ClassID] = b.ID
			}
		}
	}

	views := make([]ClassView, 0, len(classes))
	for _, c := range classes {
		v := ClassView{Class: c, Available: c.Available()}
		if id, ok := booked[c.ID]; ok {
			v.BookedByViewer = true
			v.ViewerBookingID = &id
		}
		views = append(views, v)
	}
	return views, nil
}

func cacheKey(f ports.ClassFilter) string {
	unix := func(t time.Time) int64 {
		if t.IsZero() {
			return 0
		}
		return t.Unix()
	}
	return fmt.Sprintf("%d:%d:%s:%s", unix(f.From), unix(f.To), f.Type, f.InstructorID)
}
