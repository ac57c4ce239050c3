package ui

// arrangement is the slice of engine state focus traversal reads.
type arrangement interface {
	Columns() int
	ColumnWidgets(column int) []string
}

// FocusManager tracks which panel keyboard input lands on. There is no
// stored tab order: every move reads the live arrangement, so focus
// follows widgets as gestures and presets rearrange them.
type FocusManager struct {
	arr      arrangement
	Current  string // ID of the currently focused panel
	OnChange func(from, to string)
}

// NewFocusManager creates a manager over the given arrangement.
func NewFocusManager(arr arrangement) *FocusManager {
	return &FocusManager{arr: arr}
}

// Ensure repairs focus after the arrangement changed: a vanished or unset
// Current falls back to the first widget in reading order. Returns the
// (possibly updated) focus, empty when the board has no widgets.
func (f *FocusManager) Ensure() string {
	if f.Current != "" {
		if _, _, ok := f.placement(f.Current); ok {
			return f.Current
		}
	}
	flat := f.flatten()
	if len(flat) == 0 {
		f.Current = ""
		return ""
	}
	f.set(flat[0])
	return f.Current
}

// Next advances focus in reading order (columns left to right, widgets top
// to bottom), wrapping at the end.
func (f *FocusManager) Next() string {
	return f.cycle(1)
}

// Prev moves focus backwards in reading order, wrapping at the start.
func (f *FocusManager) Prev() string {
	return f.cycle(-1)
}

func (f *FocusManager) cycle(step int) string {
	flat := f.flatten()
	if len(flat) == 0 {
		f.Current = ""
		return ""
	}
	idx := -1
	for i, id := range flat {
		if id == f.Current {
			idx = i
			break
		}
	}
	if idx < 0 {
		f.set(flat[0])
		return f.Current
	}
	f.set(flat[(idx+step+len(flat))%len(flat)])
	return f.Current
}

// Up moves focus to the widget above in the same column, staying put at
// the top.
func (f *FocusManager) Up() string {
	col, idx, ok := f.placement(f.Current)
	if !ok {
		return f.Ensure()
	}
	if idx > 0 {
		f.set(f.arr.ColumnWidgets(col)[idx-1])
	}
	return f.Current
}

// Down moves focus to the widget below in the same column.
func (f *FocusManager) Down() string {
	col, idx, ok := f.placement(f.Current)
	if !ok {
		return f.Ensure()
	}
	widgets := f.arr.ColumnWidgets(col)
	if idx < len(widgets)-1 {
		f.set(widgets[idx+1])
	}
	return f.Current
}

// Left moves focus into the nearest non-empty column to the left, keeping
// the vertical position as far as that column allows.
func (f *FocusManager) Left() string {
	return f.lateral(-1)
}

// Right moves focus into the nearest non-empty column to the right.
func (f *FocusManager) Right() string {
	return f.lateral(1)
}

func (f *FocusManager) lateral(step int) string {
	col, idx, ok := f.placement(f.Current)
	if !ok {
		return f.Ensure()
	}
	for c := col + step; c >= 0 && c < f.arr.Columns(); c += step {
		widgets := f.arr.ColumnWidgets(c)
		if len(widgets) == 0 {
			continue
		}
		if idx >= len(widgets) {
			idx = len(widgets) - 1
		}
		f.set(widgets[idx])
		return f.Current
	}
	return f.Current
}

// Set focuses the given widget. Returns false when it is not on the board.
func (f *FocusManager) Set(id string) bool {
	if _, _, ok := f.placement(id); !ok {
		return false
	}
	f.set(id)
	return true
}

func (f *FocusManager) set(id string) {
	from := f.Current
	f.Current = id
	if f.OnChange != nil && from != id {
		f.OnChange(from, id)
	}
}

func (f *FocusManager) placement(id string) (col, idx int, ok bool) {
	if id == "" {
		return 0, 0, false
	}
	for c := 0; c < f.arr.Columns(); c++ {
		for i, w := range f.arr.ColumnWidgets(c) {
			if w == id {
				return c, i, true
			}
		}
	}
	return 0, 0, false
}

func (f *FocusManager) flatten() []string {
	var out []string
	for c := 0; c < f.arr.Columns(); c++ {
		out = append(out, f.arr.ColumnWidgets(c)...)
	}
	return out
}
