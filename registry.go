package priosched

import (
	"errors"
	"fmt"
)

// Registry collects procs in the order they were added. The simulator scans
// them in this order, so it decides who wins priority and arrival ties.
type Registry struct {
	q []*Proc
}

func NewRegistry() *Registry {
	return &Registry{q: make([]*Proc, 0)}
}

func (r *Registry) String() string {
	str := ""
	for _, p := range r.q {
		str += p.String() + "\n"
	}
	return str
}

func (r *Registry) Add(p *Proc) *Registry {
	r.q = append(r.q, p)
	return r
}

func (r *Registry) AddProc(name string, arrival Ttick, burst Ttick, priority int) *Registry {
	return r.Add(NewProc(name, arrival, burst, priority))
}

func (r *Registry) Len() int {
	return len(r.q)
}

// Procs returns the registered procs in insertion order. The slice is a copy
// but the procs are shared.
func (r *Registry) Procs() []*Proc {
	procs := make([]*Proc, len(r.q))
	copy(procs, r.q)
	return procs
}

func (r *Registry) Validate() error {
	return validateProcs(r.q)
}

// validateProcs reports every malformed proc at once.
func validateProcs(procs []*Proc) error {
	if len(procs) == 0 {
		return ErrNoProcs
	}
	var errs []error
	seen := make(map[string]bool, len(procs))
	for i, p := range procs {
		if p == nil {
			errs = append(errs, fmt.Errorf("proc #%d: %w", i, ErrNilProc))
			continue
		}
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("proc #%d: %w", i, ErrEmptyName))
		} else if seen[p.Name] {
			errs = append(errs, fmt.Errorf("proc %q: %w", p.Name, ErrDuplicateName))
		}
		seen[p.Name] = true
		if p.BurstTime <= 0 {
			errs = append(errs, fmt.Errorf("proc %q: %w, got %d", p.Name, ErrInvalidBurst, p.BurstTime))
		}
		if p.ArrivalTime < 0 {
			errs = append(errs, fmt.Errorf("proc %q: %w, got %d", p.Name, ErrInvalidArrival, p.ArrivalTime))
		}
		if p.Completed || (p.BurstTime > 0 && p.RemainingTime <= 0) {
			errs = append(errs, fmt.Errorf("proc %q: %w", p.Name, ErrProcFinished))
		}
		if p.Priority < MIN_PRIORITY {
			errs = append(errs, fmt.Errorf("proc %q: %w, got %d", p.Name, ErrInvalidPriority, p.Priority))
		}
	}
	return errors.Join(errs...)
}
