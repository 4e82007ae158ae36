package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRestrictionAllowsEmptyHistory(t *testing.T) {

	restriction := Restriction{Requests: 2, Duration: time.Minute}
	analysis := restriction.Analyse(nil)
	assert.True(t, analysis.allowed)
	assert.Zero(t, analysis.wait)
}

func TestRestrictionAllowsBelowLimit(t *testing.T) {

	restriction := Restriction{Requests: 3, Duration: time.Minute}
	history := []time.Time{time.Now()}
	analysis := restriction.Analyse(history)
	assert.True(t, analysis.allowed)
}

func TestRestrictionDeniesAtLimit(t *testing.T) {

	restriction := Restriction{Requests: 2, Duration: time.Minute}
	now := time.Now()
	history := []time.Time{now.Add(-2 * time.Second), now.Add(-time.Second)}
	analysis := restriction.Analyse(history)
	assert.False(t, analysis.allowed)
	assert.Positive(t, analysis.wait)
	assert.LessOrEqual(t, analysis.wait, time.Minute)
}

func TestRestrictionIgnoresOldRequests(t *testing.T) {

	restriction := Restriction{Requests: 2, Duration: time.Minute}
	now := time.Now()
	history := []time.Time{now.Add(-2 * time.Minute), now.Add(-90 * time.Second)}
	analysis := restriction.Analyse(history)
	assert.True(t, analysis.allowed)
}

func TestRateLimiterAllowsWithinBudget(t *testing.T) {

	rl := NewRateLimiter([]Restriction{{Requests: 3, Duration: time.Minute}})
	assert.True(t, rl.Allowed(false))
	assert.True(t, rl.Allowed(false))
	assert.True(t, rl.Allowed(false))
}

func TestRateLimiterRejectsNonVitalOverBudget(t *testing.T) {

	rl := NewRateLimiter([]Restriction{{Requests: 1, Duration: time.Minute}})
	assert.True(t, rl.Allowed(false))
	assert.False(t, rl.Allowed(false))
}

func TestRateLimiterBlocksVitalUntilAllowed(t *testing.T) {

	rl := NewRateLimiter([]Restriction{{Requests: 1, Duration: 30 * time.Millisecond}})
	assert.True(t, rl.Allowed(true))

	start := time.Now()
	assert.True(t, rl.Allowed(true))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestRateLimiterPenaltyAfterRemoteRateLimit(t *testing.T) {

	rl := NewRateLimiter([]Restriction{{Requests: 10, Duration: 30 * time.Millisecond}})
	rl.ReceivedRateLimit()
	assert.False(t, rl.Allowed(false))

	// The penalty lifts once the stopwatch runs out
	time.Sleep(50 * time.Millisecond)
	assert.True(t, rl.Allowed(false))
}

func TestStopwatch(t *testing.T) {

	stopwatch := NewStopwatch(20 * time.Millisecond)

	// Never started counts as stopped
	stopped, _ := stopwatch.Stopped()
	assert.True(t, stopped)

	stopwatch.Start()
	stopped, _ = stopwatch.Stopped()
	assert.False(t, stopped)

	time.Sleep(30 * time.Millisecond)
	stopped, elapsed := stopwatch.Stopped()
	assert.True(t, stopped)
	assert.Positive(t, elapsed)

	stopwatch.Start()
	stopwatch.Stop()
	stopped, _ = stopwatch.Stopped()
	assert.True(t, stopped)
}
