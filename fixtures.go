package priosched

import "sort"

const FIXTURE_CONTEXT_SWITCH_TIME = 1

func fixture(name string, procs ...ProcSpec) *Workload {
	cs := FIXTURE_CONTEXT_SWITCH_TIME
	return &Workload{Name: name, ContextSwitchTime: &cs, Procs: procs}
}

// Fixtures returns the built-in scenario workloads keyed by name. Each call
// returns fresh values.
func Fixtures() map[string]*Workload {
	return map[string]*Workload{
		// staggered arrivals, mixed priorities
		"case1": fixture("case1",
			ProcSpec{"P1", 0, 8, 3},
			ProcSpec{"P2", 1, 4, 1},
			ProcSpec{"P3", 2, 2, 4},
			ProcSpec{"P4", 3, 1, 2},
			ProcSpec{"P5", 4, 3, 5},
		),
		// everything arrives at once
		"case2": fixture("case2",
			ProcSpec{"P1", 0, 6, 3},
			ProcSpec{"P2", 0, 3, 1},
			ProcSpec{"P3", 0, 8, 2},
			ProcSpec{"P4", 0, 4, 4},
			ProcSpec{"P5", 0, 2, 5},
		),
		// long low priority job preempted by later urgent ones
		"case3": fixture("case3",
			ProcSpec{"P1", 0, 10, 5},
			ProcSpec{"P2", 2, 5, 1},
			ProcSpec{"P3", 5, 3, 2},
			ProcSpec{"P4", 8, 7, 1},
			ProcSpec{"P5", 10, 2, 3},
		),
		"case4": fixture("case4",
			ProcSpec{"P1", 0, 12, 2},
			ProcSpec{"P2", 4, 9, 3},
			ProcSpec{"P3", 8, 15, 1},
			ProcSpec{"P4", 12, 6, 4},
			ProcSpec{"P5", 16, 11, 2},
			ProcSpec{"P6", 20, 5, 5},
		),
		"case5": fixture("case5",
			ProcSpec{"P1", 0, 3, 3},
			ProcSpec{"P2", 1, 2, 1},
			ProcSpec{"P3", 2, 4, 2},
			ProcSpec{"P4", 3, 1, 4},
			ProcSpec{"P5", 4, 3, 5},
		),
		// long waits, exercises aging
		"case6": fixture("case6",
			ProcSpec{"P1", 0, 14, 4},
			ProcSpec{"P2", 3, 7, 2},
			ProcSpec{"P3", 6, 10, 5},
			ProcSpec{"P4", 9, 5, 1},
			ProcSpec{"P5", 12, 8, 3},
			ProcSpec{"P6", 15, 4, 6},
		),
	}
}

func FixtureNames() []string {
	fixtures := Fixtures()
	names := make([]string, 0, len(fixtures))
	for name := range fixtures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
