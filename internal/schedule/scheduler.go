package schedule

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"

	"github.com/0xTas/FLUTE-WELL/sdk/contracts"
)

const (
	// maxSleepChunk bounds every blocking sleep so a stop request is
	// noticed quickly even far from the next action.
	maxSleepChunk = 50 * time.Millisecond
	// spinThreshold is the final stretch before an action, crossed by
	// yielding instead of sleeping to keep timer wakeup jitter out of
	// the key timing.
	spinThreshold = 100 * time.Microsecond
)

// Scheduler dispatches a playback plan against an input engine in real time.
// One Scheduler runs one plan; create a fresh one per playback.
type Scheduler struct {
	engine      contracts.InputEngine
	releaseKeys []contracts.KeyID
	delay       time.Duration
	dryRun      bool
	log         contracts.Logger
	warns       *contracts.Warnings

	state    atomic.Int32
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	err      error
}

// NewScheduler wires an input engine for one playback run. releaseKeys is
// the union of every key the plan can press, released as a sweep whenever
// playback exits early.
func NewScheduler(engine contracts.InputEngine, releaseKeys []contracts.KeyID, delay time.Duration, dryRun bool, log contracts.Logger, warns *contracts.Warnings) *Scheduler {
	return &Scheduler{
		engine:      engine,
		releaseKeys: releaseKeys,
		delay:       delay,
		dryRun:      dryRun,
		log:         log,
		warns:       warns,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// State reports the current lifecycle state.
func (s *Scheduler) State() contracts.PlayState {
	return contracts.PlayState(s.state.Load())
}

// Start launches the dispatch goroutine. It fails if the scheduler has
// already been started.
func (s *Scheduler) Start(plan *Plan) error {
	if !s.state.CompareAndSwap(int32(contracts.StateIdle), int32(contracts.StateArmed)) {
		return fmt.Errorf("scheduler already started, state %s", s.State())
	}
	go s.run(plan)
	return nil
}

// Wait blocks until dispatch ends and returns the playback error, which is
// nil on normal completion and wraps ErrCancelled after a stop.
func (s *Scheduler) Wait() error {
	<-s.done
	return s.err
}

// Run plays the plan to completion or cancellation.
func (s *Scheduler) Run(plan *Plan) error {
	if err := s.Start(plan); err != nil {
		return err
	}
	return s.Wait()
}

// Stop requests cancellation. It is safe to call from any goroutine and
// more than once; the dispatch goroutine releases all held keys before
// exiting. Stop does not wait, pair it with Wait.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// run owns the dispatch loop. It stays locked to one OS thread so the
// elevated thread priority and the sleep timing apply to every action.
func (s *Scheduler) run(plan *Plan) {
	defer close(s.done)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := raiseThreadPriority(); err != nil {
		s.log.Debug("could not raise thread priority", s.log.Field().Error("error", err))
	}

	if s.delay > 0 && !s.dryRun {
		s.log.Info("waiting before playback", s.log.Field().Duration("delay", s.delay))
		if !s.sleepUntil(time.Now().Add(s.delay)) {
			s.cancel(nil, 0, len(plan.Actions))
			return
		}
	}

	s.state.Store(int32(contracts.StateRunning))
	start := time.Now()
	held := make(map[contracts.KeyID]int)

	for i, action := range plan.Actions {
		if s.dryRun {
			if s.stopped() {
				s.cancel(held, i, len(plan.Actions))
				return
			}
		} else if !s.sleepUntil(start.Add(action.At)) {
			s.cancel(held, i, len(plan.Actions))
			return
		}

		var err error
		switch action.Kind {
		case contracts.Press:
			err = s.engine.Press(action.Keys)
			for _, k := range action.Keys {
				held[k]++
			}
		case contracts.Release:
			err = s.engine.Release(action.Keys)
			for _, k := range action.Keys {
				if held[k] > 0 {
					held[k]--
				}
				if held[k] == 0 {
					delete(held, k)
				}
			}
		}
		if err != nil {
			s.warns.Addf("playback", "%s of %s failed: %v", action.Kind, action.Label, err)
		}

		s.log.Debug("dispatched",
			s.log.Field().
				String("action", action.Kind.String()).
				String("note", action.Label).
				Duration("at", action.At).
				Duration("drift", time.Since(start)-action.At))
	}

	s.state.Store(int32(contracts.StateFinished))
}

// cancel releases everything, records the cancellation error, and moves the
// state machine to Cancelled.
func (s *Scheduler) cancel(held map[contracts.KeyID]int, dispatched, total int) {
	s.log.Warn("playback cancelled",
		s.log.Field().Int("dispatched", dispatched).Int("total", total))

	if err := s.releaseEverything(held); err != nil {
		s.log.Error("failed to release keys after cancellation", s.log.Field().Error("error", err))
	}

	s.err = fmt.Errorf("%w: stopped after %d of %d actions", contracts.ErrCancelled, dispatched, total)
	s.state.Store(int32(contracts.StateCancelled))
}

// releaseEverything lets go of the tracked held keys, then sweeps the full
// key union in case tracking and reality disagree.
func (s *Scheduler) releaseEverything(held map[contracts.KeyID]int) error {
	var errs error

	if len(held) > 0 {
		keys := make([]contracts.KeyID, 0, len(held))
		for k := range held {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		errs = multierr.Append(errs, s.engine.Release(keys))
	}

	if len(s.releaseKeys) > 0 {
		errs = multierr.Append(errs, s.engine.Release(s.releaseKeys))
	}
	return errs
}

func (s *Scheduler) stopped() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

// sleepUntil blocks until the target instant, sleeping in bounded chunks
// and yielding through the final stretch. It returns false when a stop
// request arrives first.
func (s *Scheduler) sleepUntil(target time.Time) bool {
	for {
		remaining := time.Until(target)
		if remaining <= 0 {
			return true
		}

		if remaining <= spinThreshold {
			if s.stopped() {
				return false
			}
			runtime.Gosched()
			continue
		}

		chunk := remaining - spinThreshold
		if chunk > maxSleepChunk {
			chunk = maxSleepChunk
		}
		timer := time.NewTimer(chunk)
		select {
		case <-s.stop:
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
}
