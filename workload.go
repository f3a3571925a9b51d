package priosched

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"gopkg.in/yaml.v3"
)

// ProcSpec is one proc as declared in a workload file.
type ProcSpec struct {
	Name     string `json:"name" yaml:"name"`
	Arrival  int    `json:"arrival" yaml:"arrival"`
	Burst    int    `json:"burst" yaml:"burst"`
	Priority int    `json:"priority" yaml:"priority"`
}

// Workload is a named set of procs, optionally with its own context switch
// time.
type Workload struct {
	Name              string     `json:"name" yaml:"name"`
	ContextSwitchTime *int       `json:"contextSwitchTime,omitempty" yaml:"contextSwitchTime,omitempty"`
	Procs             []ProcSpec `json:"procs" yaml:"procs"`
}

// Registry builds a validated registry with fresh procs.
func (w *Workload) Registry() (*Registry, error) {
	r := NewRegistry()
	for _, ps := range w.Procs {
		r.AddProc(ps.Name, Ttick(ps.Arrival), Ttick(ps.Burst), ps.Priority)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("workload %q: %w", w.Name, err)
	}
	return r, nil
}

// SwitchTime returns the workload's own context switch time, or def when the
// workload does not set one.
func (w *Workload) SwitchTime(def Ttick) Ttick {
	if w.ContextSwitchTime == nil {
		return def
	}
	return Ttick(*w.ContextSwitchTime)
}

func DecodeYAML(data []byte) (*Workload, error) {
	w := &Workload{}
	if err := yaml.Unmarshal(data, w); err != nil {
		return nil, fmt.Errorf("decoding workload: %w", err)
	}
	return w, nil
}

// DecodeCSV reads name,arrival,burst,priority rows. A leading header row
// and '#' comment lines are skipped.
func DecodeCSV(r io.Reader) (*Workload, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = 4
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	w := &Workload{Procs: make([]ProcSpec, 0, len(rows))}
	for i, row := range rows {
		if i == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "name") {
			continue
		}
		var nums [3]int
		for j := range nums {
			n, err := strconv.Atoi(strings.TrimSpace(row[j+1]))
			if err != nil {
				return nil, fmt.Errorf("CSV row %d: %w", i+1, err)
			}
			nums[j] = n
		}
		w.Procs = append(w.Procs, ProcSpec{
			Name:     strings.TrimSpace(row[0]),
			Arrival:  nums[0],
			Burst:    nums[1],
			Priority: nums[2],
		})
	}
	return w, nil
}

// Loader reads workloads and configs and writes reports through afs, so any
// afs scheme (file://, mem://, ...) works.
type Loader struct {
	fs afs.Service
}

func NewLoader(fs afs.Service) *Loader {
	if fs == nil {
		fs = afs.New()
	}
	return &Loader{fs: fs}
}

// Workload loads a workload, choosing the decoder by extension. Workloads
// without a name are named after the file.
func (l *Loader) Workload(ctx context.Context, URL string) (*Workload, error) {
	data, err := l.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load workload from %s: %w", URL, err)
	}

	ext := strings.ToLower(path.Ext(URL))
	var w *Workload
	switch ext {
	case ".yaml", ".yml", ".json":
		w, err = DecodeYAML(data)
	case ".csv":
		w, err = DecodeCSV(bytes.NewReader(data))
	default:
		err = fmt.Errorf("%w: workload extension %q", ErrUnknownFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", URL, err)
	}
	if w.Name == "" {
		w.Name = strings.TrimSuffix(path.Base(URL), path.Ext(URL))
	}
	return w, nil
}

// Upload writes data to URL.
func (l *Loader) Upload(ctx context.Context, URL string, data []byte) error {
	if err := l.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload %s: %w", URL, err)
	}
	return nil
}

// Exists reports whether URL can be read.
func (l *Loader) Exists(ctx context.Context, URL string) bool {
	ok, err := l.fs.Exists(ctx, URL)
	if err != nil {
		return false
	}
	return ok
}

// RunWorkload builds fresh procs from w and simulates them. The workload's own
// context switch time wins over defaultSwitch; opts are applied after it.
func RunWorkload(ctx context.Context, w *Workload, defaultSwitch Ttick, opts ...Option) (*Results, error) {
	r, err := w.Registry()
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithContextSwitchTime(w.SwitchTime(defaultSwitch))}, opts...)
	s, err := New(r.Procs(), opts...)
	if err != nil {
		return nil, fmt.Errorf("workload %q: %w", w.Name, err)
	}
	return s.Run(ctx), nil
}
