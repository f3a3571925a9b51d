package priosched

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

const (
	FORMAT_TEXT  = "text"
	FORMAT_TABLE = "table"
	FORMAT_GANTT = "gantt"
)

// WriteReport renders res in the named format.
func WriteReport(w io.Writer, format string, res *Results) error {
	switch format {
	case "", FORMAT_TEXT:
		return WriteText(w, res)
	case FORMAT_TABLE:
		return WriteTable(w, res)
	case FORMAT_GANTT:
		return WriteGantt(w, res)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteText prints the execution order, one line per proc and the two
// averages.
func WriteText(w io.Writer, res *Results) error {
	var b strings.Builder
	b.WriteString("Execution Order (process starts):\n")
	fmt.Fprintf(&b, "[%s]\n", strings.Join(res.Trace, ", "))
	b.WriteString("\nProcess Results:\n")
	for _, p := range res.Procs {
		fmt.Fprintf(&b, "Process %s | Waiting Time = %d | Turnaround Time = %d | Completion = %d\n",
			p.Name, p.WaitingTime, p.TurnaroundTime, p.CompletionTime)
	}
	fmt.Fprintf(&b, "\nAverage Waiting Time = %.1f\n", res.AvgWaitingTime)
	fmt.Fprintf(&b, "Average Turnaround Time = %.1f\n", res.AvgTurnaroundTime)
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteTable prints one row per proc with the averages in the footer.
func WriteTable(w io.Writer, res *Results) error {
	if _, err := fmt.Fprintf(w, "Execution order: %s\n", strings.Join(res.Trace, " -> ")); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Process", "Arrival", "Burst", "Priority", "Waiting", "Turnaround", "Completion"})
	for _, p := range res.Procs {
		table.Append([]string{
			p.Name,
			fmt.Sprint(int(p.ArrivalTime)),
			fmt.Sprint(int(p.BurstTime)),
			fmt.Sprintf("%d -> %d", p.BasePriority, p.FinalPriority),
			fmt.Sprint(int(p.WaitingTime)),
			fmt.Sprint(int(p.TurnaroundTime)),
			fmt.Sprint(int(p.CompletionTime)),
		})
	}
	table.SetFooter([]string{"", "", "", "",
		fmt.Sprintf("Average\n%.2f", res.AvgWaitingTime),
		fmt.Sprintf("Average\n%.2f", res.AvgTurnaroundTime),
		fmt.Sprintf("Throughput\n%.2f/t", res.Throughput),
	})
	table.Render()
	return nil
}

// WriteGantt prints the compressed trace on one line followed by the final
// clock.
func WriteGantt(w io.Writer, res *Results) error {
	_, err := fmt.Fprintf(w, "%s | end %d\n", strings.Join(res.Trace, " -> "), int(res.FinalTick))
	return err
}
