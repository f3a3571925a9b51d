package priosched

// ProcResult is the final state of one proc after a run.
type ProcResult struct {
	Name           string `json:"name" yaml:"name"`
	ArrivalTime    Ttick  `json:"arrivalTime" yaml:"arrivalTime"`
	BurstTime      Ttick  `json:"burstTime" yaml:"burstTime"`
	BasePriority   int    `json:"basePriority" yaml:"basePriority"`
	FinalPriority  int    `json:"finalPriority" yaml:"finalPriority"`
	WaitingTime    Ttick  `json:"waitingTime" yaml:"waitingTime"`
	TurnaroundTime Ttick  `json:"turnaroundTime" yaml:"turnaroundTime"`
	CompletionTime Ttick  `json:"completionTime" yaml:"completionTime"`
}

// Results is what a run produces. Procs are in registry order.
type Results struct {
	RunID             string       `json:"runId" yaml:"runId"`
	Trace             []string     `json:"trace" yaml:"trace"`
	Procs             []ProcResult `json:"procs" yaml:"procs"`
	ContextSwitchTime Ttick        `json:"contextSwitchTime" yaml:"contextSwitchTime"`
	FinalTick         Ttick        `json:"finalTick" yaml:"finalTick"`
	AvgWaitingTime    float64      `json:"avgWaitingTime" yaml:"avgWaitingTime"`
	AvgTurnaroundTime float64      `json:"avgTurnaroundTime" yaml:"avgTurnaroundTime"`
	StdDevWaitingTime float64      `json:"stdDevWaitingTime" yaml:"stdDevWaitingTime"`
	// completed procs per tick of simulated time
	Throughput float64 `json:"throughput" yaml:"throughput"`
}

func (s *Simulator) results() *Results {
	res := &Results{
		RunID:             s.runID,
		Trace:             s.Trace(),
		Procs:             make([]ProcResult, len(s.procs)),
		ContextSwitchTime: s.contextSwitchTime,
		FinalTick:         s.currTick,
	}

	waiting := make([]Ttick, len(s.procs))
	turnaround := make([]Ttick, len(s.procs))
	for i, p := range s.procs {
		completion, _ := p.CompletionTime.Get()
		res.Procs[i] = ProcResult{
			Name:           p.Name,
			ArrivalTime:    p.ArrivalTime,
			BurstTime:      p.BurstTime,
			BasePriority:   p.BasePriority,
			FinalPriority:  p.Priority,
			WaitingTime:    p.WaitingTime,
			TurnaroundTime: p.TurnaroundTime(),
			CompletionTime: Ttick(completion),
		}
		waiting[i] = p.WaitingTime
		turnaround[i] = p.TurnaroundTime()
	}

	res.AvgWaitingTime = avg(waiting)
	res.AvgTurnaroundTime = avg(turnaround)
	res.StdDevWaitingTime = stdDev(waiting)
	if res.FinalTick > 0 {
		res.Throughput = float64(len(s.procs)) / float64(res.FinalTick)
	}
	return res
}

// Proc returns the result for the named proc.
func (r *Results) Proc(name string) (ProcResult, bool) {
	for _, p := range r.Procs {
		if p.Name == name {
			return p, true
		}
	}
	return ProcResult{}, false
}

// LastCompletion is the latest completion time across all procs.
func (r *Results) LastCompletion() Ttick {
	completions := make([]Ttick, len(r.Procs))
	for i, p := range r.Procs {
		completions[i] = p.CompletionTime
	}
	return Ttick(maxOf(completions))
}
