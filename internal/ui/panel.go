package ui

import "paneldeck/internal/input"

// Panel describes one widget's chrome: the title on its bar and the feed,
// if any, whose entries fill its body. Position comes from the engine, not
// from here.
type Panel struct {
	ID    string
	Title string
	Feed  string
}

// Board chrome heights, in rows.
const (
	liveRegionRows = 1
	statusBarRows  = 1
	minPanelRows   = 3 // borders plus one content line
)

// columnGeom is one column's horizontal extent and the vertical boxes of
// the panels inside it. Boxes are in screen coordinates so mouse events
// map straight onto them.
type columnGeom struct {
	X, Width int
	Boxes    []input.Box
}

// boardGeom is the computed arrangement of the whole board for one
// terminal size. The same numbers drive rendering and hit-testing, so what
// the user clicks is what the user sees.
type boardGeom struct {
	Width, Height int
	ContentHeight int
	Columns       []columnGeom
}

// computeGeometry slices the terminal into columns and stacks each
// column's widgets into equal-height boxes, spreading remainder rows over
// the topmost panels.
func computeGeometry(width, height int, arr arrangement) boardGeom {
	cols := arr.Columns()
	contentH := height - liveRegionRows - statusBarRows
	if contentH < minPanelRows {
		contentH = minPanelRows
	}
	g := boardGeom{Width: width, Height: height, ContentHeight: contentH}
	if cols == 0 {
		return g
	}

	colW := width / cols
	if colW < 4 {
		colW = 4
	}
	for c := 0; c < cols; c++ {
		cg := columnGeom{X: c * colW, Width: colW}
		if c == cols-1 && width > colW*cols {
			cg.Width += width - colW*cols
		}
		widgets := arr.ColumnWidgets(c)
		if n := len(widgets); n > 0 {
			base := contentH / n
			rem := contentH % n
			if base < minPanelRows {
				base, rem = minPanelRows, 0
			}
			top := 0
			for i, id := range widgets {
				h := base
				if i < rem {
					h++
				}
				cg.Boxes = append(cg.Boxes, input.Box{WidgetID: id, Top: top, Height: h})
				top += h
			}
		}
		g.Columns = append(g.Columns, cg)
	}
	return g
}

// columnAt maps a horizontal position to a column index.
func (g boardGeom) columnAt(x int) (int, bool) {
	for i, cg := range g.Columns {
		if x >= cg.X && x < cg.X+cg.Width {
			return i, true
		}
	}
	return 0, false
}

// widgetAt maps a position to the panel rendered there.
func (g boardGeom) widgetAt(x, y int) (string, bool) {
	col, ok := g.columnAt(x)
	if !ok {
		return "", false
	}
	for _, b := range g.Columns[col].Boxes {
		if y >= b.Top && y < b.Top+b.Height {
			return b.WidgetID, true
		}
	}
	return "", false
}
