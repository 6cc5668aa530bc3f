package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
)

// weekCell is one square of the grid. Hovering or tapping it reports its index.
type weekCell struct {
	widget.BaseWidget
	rect    *canvas.Rectangle
	index   int
	onFocus func(int)
}

var (
	_ desktop.Hoverable = (*weekCell)(nil)
	_ fyne.Tappable     = (*weekCell)(nil)
)

func newWeekCell(index int, onFocus func(int)) *weekCell {
	c := &weekCell{
		rect:    canvas.NewRectangle(colorFuture),
		index:   index,
		onFocus: onFocus,
	}
	c.rect.SetMinSize(fyne.NewSize(config.CellSize, config.CellSize))
	c.ExtendBaseWidget(c)
	return c
}

func (c *weekCell) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.New(&cellPadding{}, c.rect))
}

func (c *weekCell) setState(s engine.CellState) {
	c.rect.FillColor = StateColor(s)
	if s == engine.Current {
		c.rect.StrokeColor = colorRing
		c.rect.StrokeWidth = 2
	} else {
		c.rect.StrokeWidth = 0
	}
	c.rect.Refresh()
}

func (c *weekCell) Tapped(*fyne.PointEvent) {
	if c.onFocus != nil {
		c.onFocus(c.index)
	}
}

func (c *weekCell) MouseIn(*desktop.MouseEvent) {
	if c.onFocus != nil {
		c.onFocus(c.index)
	}
}

func (c *weekCell) MouseMoved(*desktop.MouseEvent) {}
func (c *weekCell) MouseOut()                      {}

// cellPadding insets its single child by config.CellPadding on every side.
type cellPadding struct{}

func (cellPadding) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	p := float32(config.CellPadding)
	for _, o := range objects {
		o.Move(fyne.NewPos(p, p))
		o.Resize(fyne.NewSize(size.Width-2*p, size.Height-2*p))
	}
}

func (cellPadding) MinSize(objects []fyne.CanvasObject) fyne.Size {
	p := float32(2 * config.CellPadding)
	s := fyne.NewSize(0, 0)
	for _, o := range objects {
		s = s.Max(o.MinSize())
	}
	return s.AddWidthHeight(p, p)
}

// gridView renders a snapshot as rows of 52 cells with age and week axes.
// Cells are rebuilt only when the target age or the density changes.
type gridView struct {
	app     *LifeWeeksApp
	cells   []*weekCell
	detail  *widget.Label
	content *fyne.Container

	targetAge int
	density   LabelDensity
	snap      engine.Snapshot
}

func newGridView(app *LifeWeeksApp) *gridView {
	g := &gridView{
		app:     app,
		detail:  widget.NewLabel(""),
		content: container.NewStack(),
	}
	g.detail.Alignment = fyne.TextAlignCenter
	return g
}

func (g *gridView) update(snap engine.Snapshot, density LabelDensity) {
	if snap.TargetAge != g.targetAge || density != g.density || len(g.cells) != len(snap.Cells) {
		g.rebuild(len(snap.Cells), snap.TargetAge, density)
	}
	g.snap = snap
	for i, c := range snap.Cells {
		g.cells[i].setState(c.State)
	}
	g.focus(snap.CurrentIndex)
}

func (g *gridView) rebuild(count, targetAge int, density LabelDensity) {
	g.targetAge = targetAge
	g.density = density

	g.cells = make([]*weekCell, count)
	objects := make([]fyne.CanvasObject, count)
	for i := range g.cells {
		g.cells[i] = newWeekCell(i, g.focus)
		objects[i] = g.cells[i]
	}
	cellGrid := container.NewGridWithColumns(config.GridColumns, objects...)

	rows := make([]fyne.CanvasObject, targetAge)
	for y := range rows {
		rows[y] = axisText(AxisLabel(y, density), fyne.TextAlignTrailing)
	}
	ageAxis := container.NewGridWithColumns(1, rows...)

	cols := make([]fyne.CanvasObject, config.GridColumns)
	for w := range cols {
		cols[w] = axisText(AxisLabel(w+1, density), fyne.TextAlignCenter)
	}
	spacer := canvas.NewRectangle(theme.Color(theme.ColorNameBackground))
	spacer.SetMinSize(fyne.NewSize(ageAxis.MinSize().Width, 0))
	weekAxis := container.NewBorder(nil, nil, spacer, nil, container.NewGridWithColumns(config.GridColumns, cols...))

	header := container.NewVBox(
		axisText(g.app.GetMsg(config.TKeyAxisWeek), fyne.TextAlignCenter),
		weekAxis,
	)
	side := container.NewBorder(nil, nil, axisText(g.app.GetMsg(config.TKeyAxisAge), fyne.TextAlignLeading), nil, ageAxis)

	g.content.Objects = []fyne.CanvasObject{
		container.NewBorder(header, nil, side, nil, cellGrid),
	}
	g.content.Refresh()
}

// focus shows the detail line of cell i.
func (g *gridView) focus(i int) {
	c, ok := g.snap.Cell(i)
	if !ok {
		g.detail.SetText("")
		return
	}
	g.detail.SetText(g.app.CellDetail(c))
}

func axisText(s string, align fyne.TextAlign) *canvas.Text {
	t := canvas.NewText(s, theme.Color(theme.ColorNameForeground))
	t.TextSize = config.AxisTextSize
	t.Alignment = align
	return t
}
