package priosched

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"priosched/internal/idgen"
	"priosched/internal/logging"
	"priosched/internal/tracing"
)

const (
	AGING_THRESHOLD = 5 // consecutive ready-but-not-running ticks before a priority bump
	MIN_PRIORITY    = 1
)

// Hook is notified of simulation events. All calls happen synchronously on the
// goroutine running [Simulator.Run].
type Hook interface {
	// OnDispatch fires when the cpu changes hands, after any context switch
	// cost has been charged. from is nil on the first dispatch.
	OnDispatch(tick Ttick, from, to *Proc)
	OnAge(tick Ttick, p *Proc, from, to int)
	OnComplete(tick Ttick, p *Proc)
}

// Simulator runs preemptive priority scheduling with aging over a fixed set
// of procs. It owns the procs, the aging counters, the trace and the clock
// for the duration of one Run; a Simulator is good for a single Run.
type Simulator struct {
	procs             []*Proc
	waitCounters      map[string]int
	trace             []string
	contextSwitchTime Ttick

	currTick   Ttick
	nCompleted int
	running    *Proc

	runID  string
	logger *slog.Logger
	hook   Hook
}

// New creates a [Simulator] over procs, which are scanned in the given order.
func New(procs []*Proc, opts ...Option) (*Simulator, error) {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.ContextSwitchTime < 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidCtxSwitch, o.ContextSwitchTime)
	}
	if err := validateProcs(procs); err != nil {
		return nil, err
	}

	s := &Simulator{
		procs:             procs,
		waitCounters:      make(map[string]int, len(procs)),
		trace:             make([]string, 0),
		contextSwitchTime: o.ContextSwitchTime,
		runID:             idgen.New(),
		logger:            o.Logger,
		hook:              o.Hook,
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	for _, p := range procs {
		s.waitCounters[p.Name] = 0
	}
	return s, nil
}

func (s *Simulator) String() string {
	str := fmt.Sprintf("{run %s tick %v completed %d/%d trace %v\n", s.runID, s.currTick, s.nCompleted, len(s.procs), s.trace)
	for _, p := range s.procs {
		str += "    " + p.String() + "\n"
	}
	str += "}"
	return str
}

// Run drives the simulation until every proc has completed and returns the
// results. ctx only carries the tracing span; the run is never cut short.
func (s *Simulator) Run(ctx context.Context) *Results {
	_, span := tracing.Start(ctx, "priosched.Run",
		attribute.String("run.id", s.runID),
		attribute.Int("procs", len(s.procs)),
		attribute.Int("context_switch_time", int(s.contextSwitchTime)),
	)
	defer span.End()

	for s.nCompleted < len(s.procs) {
		s.tick()
	}
	s.finalize()

	res := s.results()
	span.SetAttributes(
		attribute.Int("final_tick", int(res.FinalTick)),
		attribute.Int("switches", len(res.Trace)),
		attribute.Float64("avg_waiting_time", res.AvgWaitingTime),
		attribute.Float64("avg_turnaround_time", res.AvgTurnaroundTime),
	)
	s.logger.Info("simulation done",
		slog.String("run", s.runID),
		slog.Int("procs", len(s.procs)),
		slog.Int("final_tick", int(res.FinalTick)),
		slog.Float64("avg_waiting", res.AvgWaitingTime),
		slog.Float64("avg_turnaround", res.AvgTurnaroundTime),
	)
	return res
}

// tick advances the simulation by one scheduling decision: one unit of cpu
// plus any context switch cost, or one idle unit.
func (s *Simulator) tick() {
	s.age()

	next := s.pick()
	if next == nil {
		s.logger.Debug("cpu idle", slog.Int("tick", int(s.currTick)))
		s.currTick += 1
		return
	}

	if next != s.running {
		s.switchTo(next)
	}

	s.runOneTick(next)
}

// age bumps the wait counter of every ready proc that is not running and
// improves its priority once the counter reaches AGING_THRESHOLD. The
// running proc's counter is reset.
func (s *Simulator) age() {
	for _, p := range s.procs {
		if !p.ready(s.currTick) {
			continue
		}
		if p == s.running {
			s.waitCounters[p.Name] = 0
			continue
		}
		s.waitCounters[p.Name] += 1
		if s.waitCounters[p.Name] < AGING_THRESHOLD {
			continue
		}
		s.waitCounters[p.Name] = 0
		old := p.Priority
		p.Priority = max(MIN_PRIORITY, p.Priority-1)
		if p.Priority == old {
			continue
		}
		s.logger.Debug("aged",
			slog.Int("tick", int(s.currTick)),
			slog.String("proc", p.Name),
			slog.Int("from", old),
			slog.Int("to", p.Priority),
		)
		if s.hook != nil {
			s.hook.OnAge(s.currTick, p, old, p.Priority)
		}
	}
}

// pick scans the procs left to right and keeps the best ready one: lower
// priority wins, then earlier arrival. A later proc never displaces an
// equally good earlier one.
func (s *Simulator) pick() *Proc {
	var best *Proc
	for _, p := range s.procs {
		if !p.ready(s.currTick) {
			continue
		}
		if best == nil || p.Priority < best.Priority ||
			(p.Priority == best.Priority && p.ArrivalTime < best.ArrivalTime) {
			best = p
		}
	}
	return best
}

// switchTo records next in the trace and, unless this is the first dispatch,
// charges the context switch to the clock and to every other ready proc.
func (s *Simulator) switchTo(next *Proc) {
	from := s.running
	s.trace = append(s.trace, next.Name)

	if from != nil {
		for _, p := range s.procs {
			if p != next && p.ready(s.currTick) {
				p.WaitingTime += s.contextSwitchTime
			}
		}
		s.currTick += s.contextSwitchTime
	}
	s.running = next

	s.logger.Debug("dispatch",
		slog.Int("tick", int(s.currTick)),
		slog.String("proc", next.Name),
		slog.Int("priority", next.Priority),
	)
	if s.hook != nil {
		s.hook.OnDispatch(s.currTick, from, next)
	}
}

func (s *Simulator) runOneTick(p *Proc) {
	p.RemainingTime -= 1
	for _, other := range s.procs {
		if other != p && other.ready(s.currTick) {
			other.WaitingTime += 1
		}
	}
	s.currTick += 1

	if p.RemainingTime == 0 {
		p.complete(s.currTick)
		s.nCompleted += 1
		s.logger.Debug("completed",
			slog.Int("tick", int(s.currTick)),
			slog.String("proc", p.Name),
		)
		if s.hook != nil {
			s.hook.OnComplete(s.currTick, p)
		}
	}
}

// finalize replaces the waiting time accrued during the run with
// turnaround - burst.
func (s *Simulator) finalize() {
	for _, p := range s.procs {
		p.WaitingTime = p.TurnaroundTime() - p.BurstTime
	}
}

// Trace returns the names of the procs in dispatch order, one entry per
// process change.
func (s *Simulator) Trace() []string {
	trace := make([]string, len(s.trace))
	copy(trace, s.trace)
	return trace
}

func (s *Simulator) CurrTick() Ttick {
	return s.currTick
}
