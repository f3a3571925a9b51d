package priosched

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dispatch struct {
	tick     Ttick
	from, to string
	// accrued waiting time of every proc at the moment of the dispatch
	waiting map[string]Ttick
}

type aging struct {
	tick     Ttick
	proc     string
	from, to int
	counter  int
}

type recordingHook struct {
	sim         *Simulator
	dispatches  []dispatch
	agings      []aging
	completions []string
}

func (h *recordingHook) OnDispatch(tick Ttick, from, to *Proc) {
	d := dispatch{tick: tick, to: to.Name, waiting: make(map[string]Ttick)}
	if from != nil {
		d.from = from.Name
	}
	for _, p := range h.sim.procs {
		d.waiting[p.Name] = p.WaitingTime
	}
	h.dispatches = append(h.dispatches, d)
}

func (h *recordingHook) OnAge(tick Ttick, p *Proc, from, to int) {
	h.agings = append(h.agings, aging{tick, p.Name, from, to, h.sim.waitCounters[p.Name]})
}

func (h *recordingHook) OnComplete(tick Ttick, p *Proc) {
	h.completions = append(h.completions, p.Name)
}

func newRecordedSim(t *testing.T, procs []*Proc, cs Ttick) (*Simulator, *recordingHook) {
	t.Helper()
	hook := &recordingHook{}
	s, err := New(procs, WithContextSwitchTime(cs), WithHook(hook))
	require.NoError(t, err)
	hook.sim = s
	return s, hook
}

func TestSimulator_Scenarios(t *testing.T) {
	t.Parallel()

	type want struct {
		completion, turnaround, waiting Ttick
		priority                        int
	}

	tests := map[string]struct {
		procs     []*Proc
		cs        Ttick
		trace     []string
		finalTick Ttick
		want      map[string]want
	}{
		"lower priority value runs first, later urgent arrival preempts": {
			procs: []*Proc{
				NewProc("P1", 0, 2, 2),
				NewProc("P2", 0, 1, 1),
				NewProc("P3", 1, 1, 1),
			},
			trace:     []string{"P2", "P3", "P1"},
			finalTick: 4,
			want: map[string]want{
				"P1": {completion: 4, turnaround: 4, waiting: 2, priority: 2},
				"P2": {completion: 1, turnaround: 1, waiting: 0, priority: 1},
				"P3": {completion: 2, turnaround: 1, waiting: 0, priority: 1},
			},
		},
		"cpu idles until the first arrival": {
			procs:     []*Proc{NewProc("P", 3, 2, 1)},
			trace:     []string{"P"},
			finalTick: 5,
			want: map[string]want{
				"P": {completion: 5, turnaround: 2, waiting: 0, priority: 1},
			},
		},
		"aging lets a starved proc preempt and every switch costs the clock": {
			procs: []*Proc{
				NewProc("A", 0, 10, 2),
				NewProc("B", 0, 3, 2),
			},
			cs:        2,
			trace:     []string{"A", "B", "A"},
			finalTick: 17,
			want: map[string]want{
				"A": {completion: 17, turnaround: 17, waiting: 7, priority: 2},
				"B": {completion: 9, turnaround: 9, waiting: 6, priority: 1},
			},
		},
		"aging stops at the priority floor and ties keep the earlier proc": {
			procs: []*Proc{
				NewProc("A", 0, 30, 1),
				NewProc("B", 0, 1, 4),
			},
			trace:     []string{"A", "B"},
			finalTick: 31,
			want: map[string]want{
				"A": {completion: 30, turnaround: 30, waiting: 0, priority: 1},
				"B": {completion: 31, turnaround: 31, waiting: 30, priority: 1},
			},
		},
		"idle gap between two procs": {
			procs: []*Proc{
				NewProc("A", 0, 1, 3),
				NewProc("B", 4, 2, 3),
			},
			cs:        1,
			trace:     []string{"A", "B"},
			finalTick: 7,
			want: map[string]want{
				"A": {completion: 1, turnaround: 1, waiting: 0, priority: 3},
				"B": {completion: 7, turnaround: 3, waiting: 1, priority: 3},
			},
		},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s, err := New(tt.procs, WithContextSwitchTime(tt.cs))
			require.NoError(t, err)
			res := s.Run(context.Background())

			assert.Equal(t, tt.trace, res.Trace)
			assert.Equal(t, tt.finalTick, res.FinalTick)
			assert.Equal(t, tt.finalTick, s.CurrTick())
			require.Len(t, res.Procs, len(tt.want))
			for procName, w := range tt.want {
				got, ok := res.Proc(procName)
				require.True(t, ok, procName)
				assert.Equal(t, w.completion, got.CompletionTime, "%s completion", procName)
				assert.Equal(t, w.turnaround, got.TurnaroundTime, "%s turnaround", procName)
				assert.Equal(t, w.waiting, got.WaitingTime, "%s waiting", procName)
				assert.Equal(t, w.priority, got.FinalPriority, "%s priority", procName)
			}
		})
	}
}

func TestSimulator_ContextSwitchCharges(t *testing.T) {
	t.Parallel()

	procs := []*Proc{
		NewProc("A", 0, 10, 2),
		NewProc("B", 0, 3, 2),
	}
	s, hook := newRecordedSim(t, procs, 2)
	s.Run(context.Background())

	require.Len(t, hook.dispatches, 3)

	first := hook.dispatches[0]
	assert.Equal(t, Ttick(0), first.tick)
	assert.Equal(t, "", first.from)
	assert.Equal(t, "A", first.to)

	// B ages to priority 1 at tick 4, the switch pushes the clock to 6 and
	// charges A, which is left waiting.
	second := hook.dispatches[1]
	assert.Equal(t, Ttick(6), second.tick)
	assert.Equal(t, "A", second.from)
	assert.Equal(t, "B", second.to)
	assert.Equal(t, Ttick(2), second.waiting["A"])
	assert.Equal(t, Ttick(4), second.waiting["B"])

	// B finished at 9; nobody else is ready so only the clock pays.
	third := hook.dispatches[2]
	assert.Equal(t, Ttick(11), third.tick)
	assert.Equal(t, "B", third.from)
	assert.Equal(t, "A", third.to)
	assert.Equal(t, Ttick(5), third.waiting["A"])

	assert.Equal(t, []string{"B", "A"}, hook.completions)
}

func TestSimulator_Aging(t *testing.T) {
	t.Parallel()

	t.Run("priority improves every five waiting ticks", func(t *testing.T) {
		t.Parallel()

		procs := []*Proc{
			NewProc("A", 0, 30, 1),
			NewProc("B", 0, 1, 4),
		}
		s, hook := newRecordedSim(t, procs, 0)
		s.Run(context.Background())

		want := []aging{
			{tick: 4, proc: "B", from: 4, to: 3, counter: 0},
			{tick: 9, proc: "B", from: 3, to: 2, counter: 0},
			{tick: 14, proc: "B", from: 2, to: 1, counter: 0},
		}
		assert.Equal(t, want, hook.agings)
	})

	t.Run("running proc does not age", func(t *testing.T) {
		t.Parallel()

		procs := []*Proc{NewProc("solo", 0, 12, 5)}
		s, hook := newRecordedSim(t, procs, 0)
		res := s.Run(context.Background())

		assert.Empty(t, hook.agings)
		assert.Equal(t, 5, res.Procs[0].FinalPriority)
		assert.Equal(t, 0, s.waitCounters["solo"])
	})

	t.Run("waiting procs count up and the running proc resets", func(t *testing.T) {
		t.Parallel()

		s, err := New([]*Proc{
			NewProc("A", 0, 3, 1),
			NewProc("B", 0, 3, 2),
		})
		require.NoError(t, err)

		s.age()
		assert.Equal(t, 1, s.waitCounters["A"])
		assert.Equal(t, 1, s.waitCounters["B"])

		s.running = s.procs[0]
		s.age()
		assert.Equal(t, 0, s.waitCounters["A"])
		assert.Equal(t, 2, s.waitCounters["B"])
	})
}

func TestSimulator_Pick(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		procs []*Proc
		tick  Ttick
		want  string
	}{
		"lowest priority value wins": {
			procs: []*Proc{NewProc("a", 0, 1, 3), NewProc("b", 0, 1, 2), NewProc("c", 0, 1, 4)},
			want:  "b",
		},
		"earlier arrival breaks ties": {
			procs: []*Proc{NewProc("a", 1, 1, 2), NewProc("b", 0, 1, 2)},
			tick:  1,
			want:  "b",
		},
		"first found wins a full tie": {
			procs: []*Proc{NewProc("a", 2, 1, 2), NewProc("b", 0, 1, 2), NewProc("c", 0, 1, 2)},
			tick:  2,
			want:  "b",
		},
		"later equal proc with later arrival never replaces": {
			procs: []*Proc{NewProc("a", 0, 1, 1), NewProc("b", 1, 1, 1)},
			tick:  1,
			want:  "a",
		},
		"unarrived procs are skipped": {
			procs: []*Proc{NewProc("a", 5, 1, 1), NewProc("b", 0, 1, 9)},
			want:  "b",
		},
		"nothing ready": {
			procs: []*Proc{NewProc("a", 5, 1, 1)},
			want:  "",
		},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s, err := New(tt.procs)
			require.NoError(t, err)
			s.currTick = tt.tick

			got := s.pick()
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestSimulator_FixtureProperties(t *testing.T) {
	t.Parallel()

	for name, w := range Fixtures() {
		w := w
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r, err := w.Registry()
			require.NoError(t, err)
			procs := r.Procs()
			cs := w.SwitchTime(0)
			s, hook := newRecordedSim(t, procs, cs)
			res := s.Run(context.Background())

			sumBurst := Ttick(0)
			for i, p := range procs {
				assert.True(t, p.Completed, p.Name)
				assert.Equal(t, Ttick(0), p.RemainingTime, p.Name)

				got := res.Procs[i]
				assert.Equal(t, got.CompletionTime-got.ArrivalTime, got.TurnaroundTime, p.Name)
				assert.Equal(t, got.TurnaroundTime-got.BurstTime, got.WaitingTime, p.Name)
				assert.GreaterOrEqual(t, got.TurnaroundTime, got.BurstTime, p.Name)
				assert.LessOrEqual(t, got.FinalPriority, got.BasePriority, p.Name)
				assert.GreaterOrEqual(t, got.FinalPriority, MIN_PRIORITY, p.Name)
				sumBurst += p.BurstTime
			}

			assert.Equal(t, res.LastCompletion(), res.FinalTick)
			// none of the fixtures leave the cpu idle
			assert.Equal(t, sumBurst+cs*Ttick(len(res.Trace)-1), res.FinalTick)

			for i := 1; i < len(res.Trace); i++ {
				assert.NotEqual(t, res.Trace[i-1], res.Trace[i], "trace %v", res.Trace)
			}
			for _, a := range hook.agings {
				assert.Equal(t, a.from-1, a.to, "%+v", a)
				assert.GreaterOrEqual(t, a.to, MIN_PRIORITY)
				assert.Equal(t, 0, a.counter)
			}
			assert.Len(t, hook.dispatches, len(res.Trace))
			assert.Len(t, hook.completions, len(procs))
		})
	}
}

func TestSimulator_Deterministic(t *testing.T) {
	t.Parallel()

	for name, w := range Fixtures() {
		w := w
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			first, err := RunWorkload(context.Background(), w, 0)
			require.NoError(t, err)
			second, err := RunWorkload(context.Background(), w, 0)
			require.NoError(t, err)

			assert.NotEqual(t, first.RunID, second.RunID)
			first.RunID, second.RunID = "", ""
			assert.Equal(t, first, second)
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		procs   []*Proc
		opts    []Option
		wantErr error
	}{
		"valid": {
			procs: []*Proc{NewProc("a", 0, 1, 1)},
		},
		"negative context switch": {
			procs:   []*Proc{NewProc("a", 0, 1, 1)},
			opts:    []Option{WithContextSwitchTime(-1)},
			wantErr: ErrInvalidCtxSwitch,
		},
		"no procs": {
			wantErr: ErrNoProcs,
		},
		"zero burst": {
			procs:   []*Proc{NewProc("a", 0, 0, 1)},
			wantErr: ErrInvalidBurst,
		},
		"duplicate names": {
			procs:   []*Proc{NewProc("a", 0, 1, 1), NewProc("a", 1, 1, 1)},
			wantErr: ErrDuplicateName,
		},
		"already run": {
			procs:   []*Proc{{Name: "a", BurstTime: 2, Priority: 1}},
			wantErr: ErrProcFinished,
		},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s, err := New(tt.procs, tt.opts...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}
