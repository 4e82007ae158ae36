package common

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Analysis struct {
	allowed bool          // If the request is allowed
	wait    time.Duration // The minimal time to wait before the request is allowed
}

// RateLimiter keeps a history of outbound requests and decides if a new
// one fits inside every configured restriction. Vital requests wait in a
// queue until they are allowed; non vital ones are simply rejected when
// the budget is spent
type RateLimiter struct {
	mu                   sync.Mutex
	restrictions         []Restriction          // Restrictions to consider
	history              []time.Time            // History of requests
	duration             time.Duration          // Min duration to wait for all restrictions to be lifted
	pendingVitalRequests map[uuid.UUID]struct{} // Set of pending vital requests
	stopwatch            Stopwatch
}

// The rate limiter owns a mutex, so it is created and passed around
// as a pointer
func NewRateLimiter(restrictions []Restriction) *RateLimiter {
	rl := &RateLimiter{}
	rl.restrictions = make([]Restriction, len(restrictions))
	copy(rl.restrictions, restrictions)
	rl.pendingVitalRequests = map[uuid.UUID]struct{}{}
	// Duration
	for i := 0; i < len(restrictions); i++ {
		if restrictions[i].Duration > rl.duration {
			rl.duration = restrictions[i].Duration
		}
	}
	// Initialise a stopwatch
	rl.stopwatch = NewStopwatch(rl.duration)

	return rl
}

// Decide if request is allowed.
// If the request is not allowed but vital, execution
// will block here until it is allowed
func (rl *RateLimiter) Allowed(vital bool) bool {

	// Give this request a unique identifier
	thisuuid := uuid.New()
	for {
		rl.mu.Lock()
		// Trim history first
		rl.trim()
		// Check if the restrictions allow this request
		analysis := rl.analyse()
		if analysis.allowed {
			if vital || len(rl.pendingVitalRequests) == 0 {
				log.Debug().Msg("Allowing request")
				delete(rl.pendingVitalRequests, thisuuid)
				// Include this request in the history as it is allowed
				rl.history = append(rl.history, time.Now())
				rl.mu.Unlock()
				return true
			}
			// Request is not vital and the vital queue is not empty,
			// so we have to reject the request
			log.Warn().Msg("Rejecting non vital request because vital queue is not empty")
			rl.mu.Unlock()
			return false
		}
		if !vital {
			log.Warn().Msg("Rejecting a non vital request because restrictions do not allow it")
			rl.mu.Unlock()
			return false
		}
		// Request is vital and not allowed, so we need
		// to add it to the queue if not there
		rl.pendingVitalRequests[thisuuid] = struct{}{}
		rl.mu.Unlock()
		// and sleep for some time
		log.Warn().Msg(fmt.Sprint("Vital request ", thisuuid, " delayed ", analysis.wait.Seconds(), " seconds"))
		time.Sleep(analysis.wait)
	}
}

// ReceivedRateLimit arms the stopwatch when the remote side reports
// we exceeded its limits, so the next analyses stay conservative
func (rl *RateLimiter) ReceivedRateLimit() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.stopwatch.Start()
}

// Trim the current history, leaving only the requests
// that are young enough to be affected by at least one restriction
func (rl *RateLimiter) trim() {
	currentTime := time.Now()
	// Find the index from which we need to keep the history.
	// Start searching at the end of the slice.
	// Times are stored in chronological order
	index := 0
	for i := len(rl.history) - 1; i >= 0; i-- {
		if currentTime.Sub(rl.history[i]) > rl.duration {
			index = i + 1
			break
		}
	}
	rl.history = rl.history[index:]
}

func (rl *RateLimiter) analyse() Analysis {

	// While the remote rate limit penalty is in effect, nothing goes through
	if stopped, _ := rl.stopwatch.Stopped(); !stopped {
		return Analysis{false, rl.stopwatch.Timeout}
	}

	// Perform an analysis for each of the restrictions
	// and merge the results
	var wait time.Duration
	allowed := true
	for _, restriction := range rl.restrictions {
		analysis := restriction.Analyse(rl.history)
		allowed = allowed && analysis.allowed
		if analysis.wait > wait {
			wait = analysis.wait
		}
	}
	return Analysis{allowed, wait}
}
