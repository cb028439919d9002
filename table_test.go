package pdftour

// Notes:
// - Resolve: rule order, negative indices, every rule op
// - ShadeNumeric: the colour of each cell, rule order, failure on
//   non-integer cells without partial updates

import (
	"errors"
	"strconv"
	"testing"
)

// ---------------------------------------------------------------------------
// TestTable_Validate - Table Shape
// ---------------------------------------------------------------------------

func TestTable_Validate(t *testing.T) {
	t.Parallel()

	rows := [][]string{{"a", "b"}, {"1", "2"}}
	tests := []struct {
		name    string
		table   Table
		wantErr bool
	}{
		{"valid", Table{Rows: rows}, false},
		{"valid widths", Table{Rows: rows, ColWidths: []float64{10, 20}, RepeatRows: 1}, false},
		{"no rows", Table{}, true},
		{"empty rows", Table{Rows: [][]string{{}}}, true},
		{"width count mismatch", Table{Rows: rows, ColWidths: []float64{10}}, true},
		{"zero width", Table{Rows: rows, ColWidths: []float64{10, 0}}, true},
		{"too many repeat rows", Table{Rows: rows, RepeatRows: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.table.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidTable) {
				t.Errorf("Validate() error = %v, want ErrInvalidTable", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestTable_Columns(t *testing.T) {
	t.Parallel()

	tbl := Table{Rows: [][]string{{"a"}, {"a", "b", "c"}, {"a", "b"}}}
	if got := tbl.Columns(); got != 3 {
		t.Errorf("Columns() = %d, want 3", got)
	}
}

// ---------------------------------------------------------------------------
// TestTableStyle_Resolve - Rule Application
// ---------------------------------------------------------------------------

func TestTableStyle_Resolve(t *testing.T) {
	t.Parallel()

	style := NewTableStyle(
		TableRule{Op: LineAbove, From: Cell(0, 0), To: Cell(-1, 0), Width: 2, Color: Green},
		TableRule{Op: LineAbove, From: Cell(0, 2), To: Cell(-1, -1), Width: 0.25, Color: Black},
		TableRule{Op: LineBelow, From: Cell(0, -1), To: Cell(-1, -1), Width: 2, Color: Green},
		TableRule{Op: LineAbove, From: Cell(0, 1), To: Cell(-1, 1), Width: 2, Color: Green},
		TableRule{Op: Align, From: Cell(1, 1), To: Cell(-1, -1), Align: AlignRight},
	)

	grid := style.Resolve(4, 3)

	if len(grid) != 4 || len(grid[0]) != 3 {
		t.Fatalf("grid is %dx%d, want 4x3", len(grid), len(grid[0]))
	}
	for c := 0; c < 3; c++ {
		if s := grid[0][c].Top; s == nil || s.Width != 2 || s.Color != Green {
			t.Errorf("header col %d top = %+v, want 2pt green", c, s)
		}
		if s := grid[1][c].Top; s == nil || s.Width != 2 {
			t.Errorf("row 1 col %d top = %+v, want 2pt", c, s)
		}
		if s := grid[2][c].Top; s == nil || s.Width != 0.25 || s.Color != Black {
			t.Errorf("row 2 col %d top = %+v, want 0.25pt black", c, s)
		}
		if s := grid[3][c].Bottom; s == nil || s.Width != 2 {
			t.Errorf("last row col %d bottom = %+v, want 2pt", c, s)
		}
		if grid[0][c].Bottom != nil {
			t.Errorf("header col %d has unexpected bottom line", c)
		}
	}

	if grid[0][1].Align != AlignLeft {
		t.Errorf("header alignment = %v, want left", grid[0][1].Align)
	}
	if grid[1][0].Align != AlignLeft {
		t.Errorf("first column alignment = %v, want left", grid[1][0].Align)
	}
	if grid[3][2].Align != AlignRight {
		t.Errorf("data alignment = %v, want right", grid[3][2].Align)
	}
	if grid[2][2].TextColor != Black {
		t.Errorf("default text colour = %v, want black", grid[2][2].TextColor)
	}
}

func TestTableStyle_ResolveLaterRuleWins(t *testing.T) {
	t.Parallel()

	style := NewTableStyle(
		TableRule{Op: Background, From: Cell(0, 0), To: Cell(-1, -1), Color: LightGrey},
		TableRule{Op: Background, From: Cell(1, 1), To: Cell(1, 1), Color: Red},
		TableRule{Op: TextColor, From: Cell(0, 0), To: Cell(0, 0), Color: White},
	)
	grid := style.Resolve(2, 2)

	if bg := grid[1][1].Background; bg == nil || *bg != Red {
		t.Errorf("overlapping cell background = %v, want red", bg)
	}
	if bg := grid[0][1].Background; bg == nil || *bg != LightGrey {
		t.Errorf("other cell background = %v, want lightgrey", bg)
	}
	if grid[0][0].TextColor != White {
		t.Errorf("text colour = %v, want white", grid[0][0].TextColor)
	}
}

func TestTableStyle_ResolveGridAndBox(t *testing.T) {
	t.Parallel()

	grid := NewTableStyle(TableRule{Op: Grid, From: Cell(0, 0), To: Cell(-1, -1), Width: 1}).Resolve(2, 2)
	for r := range grid {
		for c := range grid[r] {
			cs := grid[r][c]
			if cs.Top == nil || cs.Bottom == nil || cs.Left == nil || cs.Right == nil {
				t.Errorf("grid cell (%d,%d) misses an edge: %+v", c, r, cs)
			}
		}
	}

	box := NewTableStyle(TableRule{Op: Box, From: Cell(0, 0), To: Cell(-1, -1), Width: 1}).Resolve(3, 3)
	centre := box[1][1]
	if centre.Top != nil || centre.Bottom != nil || centre.Left != nil || centre.Right != nil {
		t.Errorf("box centre cell has edges: %+v", centre)
	}
	if box[0][0].Top == nil || box[0][0].Left == nil || box[0][0].Right != nil {
		t.Errorf("box corner = %+v, want top and left only", box[0][0])
	}
	if box[2][2].Bottom == nil || box[2][2].Right == nil {
		t.Errorf("box far corner = %+v, want bottom and right", box[2][2])
	}
}

func TestTableStyle_ResolveOutOfRange(t *testing.T) {
	t.Parallel()

	style := NewTableStyle(TableRule{Op: Background, From: Cell(-10, 0), To: Cell(10, 0), Color: Red})

	grid := style.Resolve(1, 2)
	for c := 0; c < 2; c++ {
		if grid[0][c].Background == nil {
			t.Errorf("col %d not coloured by clamped rule", c)
		}
	}
	if got := style.Resolve(0, 0); len(got) != 0 {
		t.Errorf("Resolve(0, 0) = %v, want empty", got)
	}
}

func TestTableStyle_ResolveEmptyRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to CellRef
	}{
		{"start row past the end", Cell(0, 5), Cell(-1, -1)},
		{"start column past the end", Cell(3, 0), Cell(-1, -1)},
		{"start after end", Cell(0, 2), Cell(-1, 1)},
		{"end before the grid", Cell(0, 0), Cell(-1, -5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			style := NewTableStyle(TableRule{Op: Background, From: tt.from, To: tt.to, Color: Red})
			grid := style.Resolve(3, 2)
			for r := range grid {
				for c := range grid[r] {
					if grid[r][c].Background != nil {
						t.Errorf("cell (%d, %d) painted by a rule outside the table", c, r)
					}
				}
			}
		})
	}
}

func TestTableStyle_ResolveTrafficRulesOneDataRow(t *testing.T) {
	t.Parallel()

	// lineabove (0,2)..(-1,-1) separates data rows; with a single data row
	// there is nothing to separate.
	style := NewTableStyle(TableRule{Op: LineAbove, From: Cell(0, 2), To: Cell(-1, -1), Width: 0.25, Color: Black})
	grid := style.Resolve(2, 3)
	for c := range grid[1] {
		if grid[1][c].Top != nil {
			t.Errorf("row 1 col %d got a line above", c)
		}
	}
}

func TestTableStyle_AddDoesNotAlias(t *testing.T) {
	t.Parallel()

	base := NewTableStyle(TableRule{Op: Grid}, TableRule{Op: Box})
	a, b := base, base
	a.Add(TableRule{Op: Background, Color: Red})
	b.Add(TableRule{Op: Background, Color: Green})

	if base.Len() != 2 {
		t.Errorf("base.Len() = %d, want 2", base.Len())
	}
	if a.Rules()[2].Color != Red || b.Rules()[2].Color != Green {
		t.Error("copies of a style share appended rules")
	}
}

func TestParseRuleOp(t *testing.T) {
	t.Parallel()

	for op, name := range ruleOpNames {
		got, err := ParseRuleOp(name)
		if err != nil || got != op {
			t.Errorf("ParseRuleOp(%q) = (%v, %v), want %v", name, got, err, op)
		}
	}
	if got, err := ParseRuleOp("LineBelow"); err != nil || got != LineBelow {
		t.Errorf("ParseRuleOp(LineBelow) = (%v, %v)", got, err)
	}
	if _, err := ParseRuleOp("span"); !errors.Is(err, ErrInvalidTable) {
		t.Errorf("ParseRuleOp(span) error = %v, want ErrInvalidTable", err)
	}
}

// ---------------------------------------------------------------------------
// TestShadeNumeric - Colour Accumulation
// ---------------------------------------------------------------------------

func TestShadeNumeric(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Time", "Down", "Up"},
		{"09:00", "0", "1000"},
		{"10:00", "500", "2000"},
	}
	style := NewTableStyle(TableRule{Op: LineAbove, From: Cell(0, 0), To: Cell(-1, 0), Width: 2, Color: Green})

	if err := ShadeNumeric(&style, rows, []int{1, 2}, 1000, White, Red); err != nil {
		t.Fatalf("ShadeNumeric() unexpected error: %v", err)
	}

	rules := style.Rules()
	if len(rules) != 5 {
		t.Fatalf("len(rules) = %d, want 1 base + 4 shading", len(rules))
	}
	if rules[0].Op != LineAbove {
		t.Errorf("base rule moved: %v", rules[0].Op)
	}

	want := []struct {
		cell  CellRef
		color Color
	}{
		{Cell(1, 1), White},
		{Cell(2, 1), Red},
		{Cell(1, 2), Color{R: 1, G: 0.5, B: 0.5}},
		{Cell(2, 2), Red},
	}
	for i, w := range want {
		r := rules[i+1]
		if r.Op != Background || r.From != w.cell || r.To != w.cell {
			t.Errorf("rule %d = %+v, want background on %+v", i+1, r, w.cell)
		}
		if !colorsClose(r.Color, w.color) {
			t.Errorf("rule %d colour = %v, want %v", i+1, r.Color, w.color)
		}
	}
}

func TestShadeNumeric_NotNumeric(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Time", "Down"},
		{"09:00", "12"},
		{"10:00", "n/a"},
	}
	style := NewTableStyle()

	err := ShadeNumeric(&style, rows, []int{1}, 1000, White, Red)
	if !errors.Is(err, ErrNotNumeric) {
		t.Fatalf("ShadeNumeric() error = %v, want ErrNotNumeric", err)
	}
	var numErr *strconv.NumError
	if !errors.As(err, &numErr) {
		t.Errorf("error %v does not wrap the strconv error", err)
	}
	if style.Len() != 0 {
		t.Errorf("style has %d rules after failure, want 0", style.Len())
	}
}

func TestShadeNumeric_MissingColumn(t *testing.T) {
	t.Parallel()

	style := NewTableStyle()
	err := ShadeNumeric(&style, [][]string{{"h"}, {"1"}}, []int{3}, 1000, White, Red)
	if !errors.Is(err, ErrInvalidTable) {
		t.Errorf("ShadeNumeric() error = %v, want ErrInvalidTable", err)
	}
}

func TestShadeNumeric_HeaderOnly(t *testing.T) {
	t.Parallel()

	style := NewTableStyle()
	if err := ShadeNumeric(&style, [][]string{{"not", "numbers"}}, []int{0, 1}, 1000, White, Red); err != nil {
		t.Errorf("ShadeNumeric() on header only unexpected error: %v", err)
	}
	if style.Len() != 0 {
		t.Errorf("Len() = %d, want 0", style.Len())
	}
}
