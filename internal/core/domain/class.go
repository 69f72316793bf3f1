package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ClassStatus string

const (
	ClassScheduled ClassStatus = "scheduled"
	ClassOngoing   ClassStatus = "ongoing"
	ClassCompleted ClassStatus = "completed"
	ClassCancelled ClassStatus = "cancelled"
)

func (s ClassStatus) Valid() bool {
	switch s {
	case ClassScheduled, ClassOngoing, ClassCompleted, ClassCancelled:
		return true
	}
	return false
}

// Terminal classes accept no bookings and have frozen capacity.
func (s ClassStatus) Terminal() bool {
	return s == ClassCompleted || s == ClassCancelled
}

func (s ClassStatus) rank() int {
	switch s {
	case ClassScheduled:
		return 0
	case ClassOngoing:
		return 1
	case ClassCompleted:
		return 2
	}
	return -1
}

type GymClass struct {
	ID             uuid.UUID
	Name           string
	Description    string
	Type           string
	InstructorID   string
	InstructorName string
	StartsAt       time.Time
	EndsAt         time.Time
	Location       string
	Capacity       int
	Enrolled       int
	Status         ClassStatus
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (c *GymClass) Available() int {
	if c.Enrolled >= c.Capacity {
		return 0
	}
	return c.Capacity - c.Enrolled
}

func (c *GymClass) HasStarted(now time.Time) bool {
	return !now.Before(c.StartsAt)
}

// DeriveStatus returns the effective status of c at now. A stored status is
// never moved backwards; the clock can only advance scheduled classes to
// ongoing and ongoing classes to completed.
func DeriveStatus(c GymClass, now time.Time) ClassStatus {
	if c.Status == ClassCancelled || c.Status == ClassCompleted {
		return c.Status
	}
	byClock := ClassScheduled
	switch {
	case !now.Before(c.EndsAt):
		byClock = ClassCompleted
	case !now.Before(c.StartsAt):
		byClock = ClassOngoing
	}
	if byClock.rank() > c.Status.rank() {
		return byClock
	}
	return c.Status
}

// CanTransition reports whether a class may move from one status to another.
func CanTransition(from, to ClassStatus) bool {
	switch from {
	case ClassScheduled:
		return to == ClassOngoing || to == ClassCancelled
	case ClassOngoing:
		return to == ClassCompleted || to == ClassCancelled
	}
	return false
}

// ClassDefinition is the input for creating a class.
type ClassDefinition struct {
	Name           string    `json:"name" validate:"required,max=120"`
	Description    string    `json:"description" validate:"max=2000"`
	Type           string    `json:"type" validate:"required,max=40"`
	InstructorID   string    `json:"instructor_id" validate:"required"`
	InstructorName string    `json:"instructor_name" validate:"required,max=120"`
	StartsAt       time.Time `json:"starts_at" validate:"required"`
	EndsAt         time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Location       string    `json:"location" validate:"max=120"`
	Capacity       int       `json:"capacity" validate:"gt=0,lte=1000"`
}

func (d *ClassDefinition) normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.Type = strings.ToLower(strings.TrimSpace(d.Type))
	d.InstructorID = strings.TrimSpace(d.InstructorID)
	d.InstructorName = strings.TrimSpace(d.InstructorName)
	d.Location = strings.TrimSpace(d.Location)
}

func (d *ClassDefinition) Validate() error {
	d.normalize()
	return validateStruct(d)
}

// ClassPatch carries optional metadata and capacity edits.
type ClassPatch struct {
	Name           *string    `json:"name,omitempty" validate:"omitempty,max=120"`
	Description    *string    `json:"description,omitempty" validate:"omitempty,max=2000"`
	Type           *string    `json:"type,omitempty" validate:"omitempty,max=40"`
	InstructorID   *string    `json:"instructor_id,omitempty"`
	InstructorName *string    `json:"instructor_name,omitempty" validate:"omitempty,max=120"`
	StartsAt       *time.Time `json:"starts_at,omitempty"`
	EndsAt         *time.Time `json:"ends_at,omitempty"`
	Location       *string    `json:"location,omitempty" validate:"omitempty,max=120"`
	Capacity       *int       `json:"capacity,omitempty" validate:"omitempty,gt=0,lte=1000"`
}

func (p ClassPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Type == nil && p.InstructorID == nil &&
		p.InstructorName == nil && p.StartsAt == nil && p.EndsAt == nil && p.Location == nil && p.Capacity == nil
}

// Apply returns a copy of c with the patch applied. Enrolled and status are
// never touched here. The result is re-validated as a whole.
func (p ClassPatch) Apply(c GymClass) (GymClass, error) {
	if err := validateStruct(&p); err != nil {
		return c, err
	}
	out := c
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.InstructorID != nil {
		out.InstructorID = *p.InstructorID
	}
	if p.InstructorName != nil {
		out.InstructorName = *p.InstructorName
	}
	if p.StartsAt != nil {
		out.StartsAt = *p.StartsAt
	}
	if p.EndsAt != nil {
		out.EndsAt = *p.EndsAt
	}
	if p.Location != nil {
		out.Location = *p.Location
	}
	if p.Capacity != nil {
		out.Capacity = *p.Capacity
	}

	def := ClassDefinition{
		Name:           out.Name,
		Description:    out.Description,
		Type:           out.Type,
		InstructorID:   out.InstructorID,
		InstructorName: out.InstructorName,
		StartsAt:       out.StartsAt,
		EndsAt:         out.EndsAt,
		Location:       out.Location,
		Capacity:       out.Capacity,
	}
	if err := def.Validate(); err != nil {
		return c, err
	}
	out.Name, out.Description, out.Type = def.Name, def.Description, def.Type
	out.InstructorID, out.InstructorName, out.Location = def.InstructorID, def.InstructorName, def.Location
	return out, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return WrapError(KindValidation, "invalid input", err)
	}
	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fmt.Sprintf("%s:%s", fe.Field(), fe.Tag()))
	}
	sort.Strings(fields)
	return NewError(KindValidation, "invalid fields: %s", strings.Join(fields, ", "))
}
