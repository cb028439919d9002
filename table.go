package pdftour

import (
	"fmt"
	"strconv"
	"strings"
)

// Table defaults.
const (
	DefaultTableFont     = FontHelvetica
	DefaultTableFontSize = 10.0
	TableCellPaddingX    = 6.0
	TableCellPaddingY    = 3.0
)

// Table is a grid of text cells. Rows[0..RepeatRows) are header rows,
// repeated at the top of every continuation page.
type Table struct {
	Rows       [][]string
	ColWidths  []float64 // nil means equal shares of the frame width
	RepeatRows int
	Style      TableStyle
	FontSize   float64 // 0 means DefaultTableFontSize
}

// Columns returns the number of columns (the length of the longest row).
func (t Table) Columns() int {
	n := 0
	for _, row := range t.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// Validate checks that the table can be laid out.
func (t Table) Validate() error {
	if len(t.Rows) == 0 || t.Columns() == 0 {
		return fmt.Errorf("%w: no cells", ErrInvalidTable)
	}
	if t.ColWidths != nil && len(t.ColWidths) != t.Columns() {
		return fmt.Errorf("%w: %d column widths for %d columns", ErrInvalidTable, len(t.ColWidths), t.Columns())
	}
	for i, w := range t.ColWidths {
		if w <= 0 {
			return fmt.Errorf("%w: column %d has width %.2f", ErrInvalidTable, i, w)
		}
	}
	if t.RepeatRows < 0 || t.RepeatRows > len(t.Rows) {
		return fmt.Errorf("%w: repeat rows %d out of range", ErrInvalidTable, t.RepeatRows)
	}
	return nil
}

// CellRef addresses a cell. Negative values count from the end: -1 is the
// last column or row.
type CellRef struct {
	Col, Row int
}

// Cell returns a CellRef.
func Cell(col, row int) CellRef {
	return CellRef{Col: col, Row: row}
}

// RuleOp is the kind of a table style rule.
type RuleOp int

const (
	LineAbove RuleOp = iota + 1
	LineBelow
	Background
	Align
	TextColor
	Grid
	Box
)

var ruleOpNames = map[RuleOp]string{
	LineAbove:  "lineabove",
	LineBelow:  "linebelow",
	Background: "background",
	Align:      "align",
	TextColor:  "textcolor",
	Grid:       "grid",
	Box:        "box",
}

func (op RuleOp) String() string {
	if name, ok := ruleOpNames[op]; ok {
		return name
	}
	return "unknown"
}

// ParseRuleOp parses a rule name such as "background" or "lineBelow".
func ParseRuleOp(s string) (RuleOp, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for op, name := range ruleOpNames {
		if name == key {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown rule %q", ErrInvalidTable, s)
}

// TableRule styles the rectangular region From..To (inclusive).
// Width and Color apply to line rules, Color to Background and TextColor,
// Align to Align.
type TableRule struct {
	Op       RuleOp
	From, To CellRef
	Width    float64
	Color    Color
	Align    Alignment
}

// TableStyle is an ordered list of rules. Rules apply in order, so a later
// rule wins on cells it shares with an earlier one.
type TableStyle struct {
	rules []TableRule
}

// NewTableStyle creates a style holding rules.
func NewTableStyle(rules ...TableRule) TableStyle {
	var s TableStyle
	s.Add(rules...)
	return s
}

// Add appends rules. Copies of s taken earlier are not affected.
func (s *TableStyle) Add(rules ...TableRule) {
	s.rules = append(s.rules[:len(s.rules):len(s.rules)], rules...)
}

// Rules returns a copy of the rule list.
func (s TableStyle) Rules() []TableRule {
	out := make([]TableRule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Len returns the number of rules.
func (s TableStyle) Len() int {
	return len(s.rules)
}

// Stroke is a cell edge.
type Stroke struct {
	Width float64
	Color Color
}

// CellStyle is the resolved appearance of one cell.
type CellStyle struct {
	Background *Color
	TextColor  Color
	Align      Alignment
	Top        *Stroke
	Bottom     *Stroke
	Left       *Stroke
	Right      *Stroke
}

// Resolve applies the rules to a rows x cols grid and returns the
// per-cell result, indexed [row][col].
func (s TableStyle) Resolve(rows, cols int) [][]CellStyle {
	grid := make([][]CellStyle, rows)
	for r := range grid {
		grid[r] = make([]CellStyle, cols)
		for c := range grid[r] {
			grid[r][c].TextColor = Black
		}
	}
	if rows == 0 || cols == 0 {
		return grid
	}

	for _, rule := range s.rules {
		c0, c1, okCols := span(rule.From.Col, rule.To.Col, cols)
		r0, r1, okRows := span(rule.From.Row, rule.To.Row, rows)
		if !okCols || !okRows {
			continue
		}
		stroke := &Stroke{Width: rule.Width, Color: rule.Color}

		for r := r0; r <= r1; r++ {
			for c := c0; c <= c1; c++ {
				cell := &grid[r][c]
				switch rule.Op {
				case LineAbove:
					cell.Top = stroke
				case LineBelow:
					cell.Bottom = stroke
				case Background:
					bg := rule.Color
					cell.Background = &bg
				case Align:
					cell.Align = rule.Align
				case TextColor:
					cell.TextColor = rule.Color
				case Grid:
					cell.Top, cell.Bottom, cell.Left, cell.Right = stroke, stroke, stroke, stroke
				case Box:
					if r == r0 {
						cell.Top = stroke
					}
					if r == r1 {
						cell.Bottom = stroke
					}
					if c == c0 {
						cell.Left = stroke
					}
					if c == c1 {
						cell.Right = stroke
					}
				}
			}
		}
	}
	return grid
}

// span resolves negative indices of the range from..to over n cells and
// clamps it to the grid. ok is false when nothing of the range lies on the
// grid, such as a start past the end or a start after the end.
func span(from, to, n int) (lo, hi int, ok bool) {
	if from < 0 {
		from += n
	}
	if to < 0 {
		to += n
	}
	if from >= n || to < 0 || from > to {
		return 0, 0, false
	}
	return max(from, 0), min(to, n-1), true
}

// ShadeNumeric appends one Background rule per numeric cell: for every data
// row (row 0 is the header) and every column in cols, the cell is parsed as
// an integer, clamped to threshold, and coloured Lerp(from, to, 0,
// threshold, value). The new rules follow the existing ones in row-major
// order. A cell that is not an integer stops the accumulation with
// ErrNotNumeric.
func ShadeNumeric(style *TableStyle, rows [][]string, cols []int, threshold float64, from, to Color) error {
	var added []TableRule
	for r := 1; r < len(rows); r++ {
		for _, c := range cols {
			if c < 0 || c >= len(rows[r]) {
				return fmt.Errorf("%w: row %d has no column %d", ErrInvalidTable, r, c)
			}
			n, err := strconv.Atoi(strings.TrimSpace(rows[r][c]))
			if err != nil {
				return fmt.Errorf("%w: row %d column %d: %w", ErrNotNumeric, r, c, err)
			}
			v := float64(n)
			if v > threshold {
				v = threshold
			}
			added = append(added, TableRule{
				Op:    Background,
				From:  Cell(c, r),
				To:    Cell(c, r),
				Color: Lerp(from, to, 0, threshold, v),
			})
		}
	}
	style.Add(added...)
	return nil
}
