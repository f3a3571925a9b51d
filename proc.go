package priosched

import (
	"fmt"

	"github.com/markphelps/optional"
)

// Proc is one simulated process. The simulator mutates it in place while it
// runs; everything except Priority, RemainingTime, WaitingTime,
// CompletionTime and Completed is fixed input.
type Proc struct {
	Name         string
	ArrivalTime  Ttick
	BurstTime    Ttick
	BasePriority int
	// smaller is more urgent, only ever lowered by aging
	Priority       int
	RemainingTime  Ttick
	WaitingTime    Ttick
	CompletionTime optional.Int // unset until the proc finishes
	Completed      bool
}

func NewProc(name string, arrival Ttick, burst Ttick, priority int) *Proc {
	return &Proc{
		Name:          name,
		ArrivalTime:   arrival,
		BurstTime:     burst,
		BasePriority:  priority,
		Priority:      priority,
		RemainingTime: burst,
	}
}

func (p *Proc) String() string {
	completion := "-"
	if c, err := p.CompletionTime.Get(); err == nil {
		completion = Ttick(c).String()
	}
	return fmt.Sprintf("{%s arrival %v burst %v prio %d/%d remaining %v waiting %v done %s}",
		p.Name, p.ArrivalTime, p.BurstTime, p.Priority, p.BasePriority, p.RemainingTime, p.WaitingTime, completion)
}

// ready reports whether the proc has arrived by tick t and still needs cpu.
func (p *Proc) ready(t Ttick) bool {
	return p.ArrivalTime <= t && p.RemainingTime > 0
}

// TurnaroundTime is completion minus arrival, or 0 while the proc is unfinished.
func (p *Proc) TurnaroundTime() Ttick {
	c, err := p.CompletionTime.Get()
	if err != nil {
		return 0
	}
	return Ttick(c) - p.ArrivalTime
}

func (p *Proc) complete(t Ttick) {
	p.CompletionTime = optional.NewInt(int(t))
	p.Completed = true
}
