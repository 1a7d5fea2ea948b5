package booking

import (
	"sort"

	"appointment-booking-api/internal/model"
)

// Window is a half-open [Start, End) range within one day.
type Window struct {
	Start model.Clock
	End   model.Clock
}

func (w Window) Empty() bool { return w.End <= w.Start }

// Overlaps uses the half-open test: a.Start < b.End && b.Start < a.End.
func (w Window) Overlaps(o Window) bool {
	return w.Start < o.End && o.Start < w.End
}

func (w Window) Contains(o Window) bool {
	return w.Start <= o.Start && o.End <= w.End
}

func (w Window) Intersect(o Window) Window {
	out := w
	if o.Start > out.Start {
		out.Start = o.Start
	}
	if o.End < out.End {
		out.End = o.End
	}
	return out
}

func (w Window) String() string {
	return "[" + w.Start.String() + "," + w.End.String() + ")"
}

// merge sorts windows and joins overlapping or adjacent ones. Empty
// windows are dropped.
func merge(ws []Window) []Window {
	in := make([]Window, 0, len(ws))
	for _, w := range ws {
		if !w.Empty() {
			in = append(in, w)
		}
	}
	sort.Slice(in, func(i, j int) bool {
		if in[i].Start != in[j].Start {
			return in[i].Start < in[j].Start
		}
		return in[i].End < in[j].End
	})

	var out []Window
	for _, w := range in {
		if n := len(out); n > 0 && w.Start <= out[n-1].End {
			if w.End > out[n-1].End {
				out[n-1].End = w.End
			}
			continue
		}
		out = append(out, w)
	}
	return out
}

func windowOf(a model.Appointment) Window {
	return Window{Start: a.Start, End: a.End()}
}
