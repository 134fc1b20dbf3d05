package operations

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepState_Lifecycle(t *testing.T) {
	s := NewStepState("pivot")
	assert.Equal(t, StepStatusPending, s.GetStatus())
	assert.Zero(t, s.Duration())

	s.Start()
	assert.Equal(t, StepStatusActive, s.GetStatus())
	time.Sleep(time.Millisecond)
	assert.Greater(t, s.Duration(), time.Duration(0), "running step reports elapsed time")

	s.Complete(3)
	assert.Equal(t, StepStatusCompleted, s.GetStatus())
	assert.Equal(t, 3, s.Rows)
	d := s.Duration()
	time.Sleep(time.Millisecond)
	assert.Equal(t, d, s.Duration(), "finished step has a fixed duration")
}

func TestStepState_Fail(t *testing.T) {
	s := NewStepState("combine")
	s.Start()
	err := errors.New("boom")
	s.Fail(err)

	assert.Equal(t, StepStatusFailed, s.GetStatus())
	assert.Equal(t, err, s.Error)
	assert.NotNil(t, s.EndTime)
}
