package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func sampleClass(status ClassStatus) GymClass {
	return GymClass{
		Name:           "Spin",
		Type:           "cycling",
		InstructorID:   "trainer-1",
		InstructorName: "Tari",
		StartsAt:       t0,
		EndsAt:         t0.Add(time.Hour),
		Capacity:       10,
		Enrolled:       4,
		Status:         status,
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name   string
		stored ClassStatus
		now    time.Time
		want   ClassStatus
	}{
		{"before start", ClassScheduled, t0.Add(-time.Minute), ClassScheduled},
		{"at start", ClassScheduled, t0, ClassOngoing},
		{"during", ClassScheduled, t0.Add(30 * time.Minute), ClassOngoing},
		{"at end", ClassScheduled, t0.Add(time.Hour), ClassCompleted},
		{"after end from ongoing", ClassOngoing, t0.Add(2 * time.Hour), ClassCompleted},
		{"manual ongoing before start", ClassOngoing, t0.Add(-time.Hour), ClassOngoing},
		{"cancelled stays cancelled", ClassCancelled, t0.Add(2 * time.Hour), ClassCancelled},
		{"completed stays completed", ClassCompleted, t0.Add(-time.Hour), ClassCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(sampleClass(tt.stored), tt.now))
		})
	}
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]ClassStatus]bool{
		{ClassScheduled, ClassOngoing}:   true,
		{ClassScheduled, ClassCancelled}: true,
		{ClassOngoing, ClassCompleted}:   true,
		{ClassOngoing, ClassCancelled}:   true,
	}
	all := []ClassStatus{ClassScheduled, ClassOngoing, ClassCompleted, ClassCancelled}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]ClassStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestGymClass_Available(t *testing.T) {
	c := sampleClass(ClassScheduled)
	assert.Equal(t, 6, c.Available())

	c.Enrolled = 10
	assert.Equal(t, 0, c.Available())
}

func TestClassDefinition_Validate(t *testing.T) {
	def := ClassDefinition{
		Name:           "  Core Blast ",
		Type:           " HIIT",
		InstructorID:   "trainer-1",
		InstructorName: "Tari",
		StartsAt:       t0,
		EndsAt:         t0.Add(45 * time.Minute),
		Capacity:       20,
	}
	require.NoError(t, def.Validate())
	assert.Equal(t, "Core Blast", def.Name)
	assert.Equal(t, "hiit", def.Type)

	def.Capacity = 0
	err := def.Validate()
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "Capacity:gt")

	def.Capacity = 1001
	assert.ErrorIs(t, def.Validate(), ErrValidation)

	def.Capacity = 5
	def.EndsAt = t0
	err = def.Validate()
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "EndsAt:gtfield")
}

func TestClassPatch_Apply(t *testing.T) {
	c := sampleClass(ClassScheduled)
	name, capacity := " Spin Plus ", 12

	out, err := ClassPatch{Name: &name, Capacity: &capacity}.Apply(c)
	require.NoError(t, err)
	assert.Equal(t, "Spin Plus", out.Name)
	assert.Equal(t, 12, out.Capacity)
	assert.Equal(t, 4, out.Enrolled)
	assert.Equal(t, "Spin", c.Name, "input is not modified")

	early := t0.Add(-2 * time.Hour)
	_, err = ClassPatch{EndsAt: &early}.Apply(c)
	assert.ErrorIs(t, err, ErrValidation)

	assert.True(t, ClassPatch{}.Empty())
	assert.False(t, ClassPatch{Name: &name}.Empty())
}
