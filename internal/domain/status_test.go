package domain_test

import (
	"testing"

	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestJobStatus_CanTransitionTo(t *testing.T) {
	allowed := map[domain.JobStatus][]domain.JobStatus{
		domain.StatusPending:       {domain.StatusMeasuring, domain.StatusCancelled},
		domain.StatusMeasuring:     {domain.StatusQuoting, domain.StatusCancelled},
		domain.StatusQuoting:       {domain.StatusApproved, domain.StatusPendingFollow, domain.StatusCancelled},
		domain.StatusPendingFollow: {domain.StatusQuoting, domain.StatusApproved, domain.StatusCancelled},
		domain.StatusApproved:      {domain.StatusInProgress, domain.StatusCancelled},
		domain.StatusInProgress:    {domain.StatusCompleted, domain.StatusPendingFollow, domain.StatusCancelled},
		domain.StatusCompleted:     {},
		domain.StatusCancelled:     {},
	}

	for _, from := range domain.AllJobStatuses() {
		targets := make(map[domain.JobStatus]bool)
		for _, to := range allowed[from] {
			targets[to] = true
		}
		for _, to := range domain.AllJobStatuses() {
			got := from.CanTransitionTo(to)
			assert.Equal(t, targets[to], got, "%s -> %s", from, to)
		}
	}
}

func TestJobStatus_NoSelfTransitions(t *testing.T) {
	for _, s := range domain.AllJobStatuses() {
		assert.False(t, s.CanTransitionTo(s), "%s should not transition to itself", s)
	}
}

func TestJobStatus_IsTerminal(t *testing.T) {
	assert.True(t, domain.StatusCompleted.IsTerminal())
	assert.True(t, domain.StatusCancelled.IsTerminal())

	for _, s := range []domain.JobStatus{
		domain.StatusPending, domain.StatusMeasuring, domain.StatusQuoting,
		domain.StatusApproved, domain.StatusInProgress, domain.StatusPendingFollow,
	} {
		assert.False(t, s.IsTerminal(), "%s should not be terminal", s)
	}
}

func TestJobStatus_IsValid(t *testing.T) {
	for _, s := range domain.AllJobStatuses() {
		assert.True(t, s.IsValid(), "%s should be valid", s)
	}
	assert.False(t, domain.JobStatus("unknown").IsValid())
	assert.False(t, domain.JobStatus("").IsValid())
}

func TestJobStatus_AllowedNext(t *testing.T) {
	t.Run("cancellable from any non-terminal status", func(t *testing.T) {
		for _, s := range domain.AllJobStatuses() {
			if s.IsTerminal() {
				continue
			}
			assert.Contains(t, s.AllowedNext(), domain.StatusCancelled, "%s should allow cancel", s)
		}
	})

	t.Run("terminal statuses have no next", func(t *testing.T) {
		assert.Empty(t, domain.StatusCompleted.AllowedNext())
		assert.Empty(t, domain.StatusCancelled.AllowedNext())
	})

	t.Run("unknown status has nil next", func(t *testing.T) {
		assert.Nil(t, domain.JobStatus("bogus").AllowedNext())
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		first := domain.StatusPending.AllowedNext()
		first[0] = domain.StatusCompleted
		second := domain.StatusPending.AllowedNext()
		assert.Equal(t, domain.StatusMeasuring, second[0])
	})
}

func TestJobStatus_PendingFollowLoop(t *testing.T) {
	// quoting -> pending-follow -> quoting is a legal follow-up loop
	assert.True(t, domain.StatusQuoting.CanTransitionTo(domain.StatusPendingFollow))
	assert.True(t, domain.StatusPendingFollow.CanTransitionTo(domain.StatusQuoting))
	// and pending-follow can close the deal directly
	assert.True(t, domain.StatusPendingFollow.CanTransitionTo(domain.StatusApproved))
	// but never straight to execution
	assert.False(t, domain.StatusPendingFollow.CanTransitionTo(domain.StatusInProgress))
}
