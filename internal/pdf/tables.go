package pdf

import (
	"fmt"
	"math"
	"sort"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"github.com/creditsum/transcript-analyzer/internal/transcript"
)

// TableConfig tunes how positioned text fragments are assembled into
// table grids. All distances are in PDF points.
type TableConfig struct {
	// RowTolerance is the maximum Y distance between fragments that
	// still belong to the same physical row.
	RowTolerance float64

	// CellGap is the horizontal gap that separates two cells. Smaller
	// gaps merge fragments into one cell.
	CellGap float64

	// SnapTolerance is the distance within which cell start positions
	// from different rows snap to the same column boundary.
	SnapTolerance float64

	// BlockGap is the vertical distance that splits rows into separate
	// table blocks.
	BlockGap float64

	// MinRows and MinCols gate which blocks are reported as tables: a
	// block needs at least MinRows rows carrying MinCols or more cells.
	MinRows int
	MinCols int
}

// DefaultTableConfig returns extraction parameters tuned for the
// row-and-column layouts registrar systems produce.
func DefaultTableConfig() TableConfig {
	return TableConfig{
		RowTolerance:  2.0,
		CellGap:       8.0,
		SnapTolerance: 5.0,
		BlockGap:      18.0,
		MinRows:       2,
		MinCols:       3,
	}
}

// ExtractedDocument holds the table grids recovered from one PDF.
type ExtractedDocument struct {
	Pages  int
	Tables []transcript.RawTable
}

// TableExtractor recovers table grids from the positioned text of a
// PDF. It works purely from fragment coordinates: fragments cluster
// into rows by Y, rows into cells by X gaps, and cell start positions
// across rows into column boundaries.
type TableExtractor struct {
	cfg TableConfig
	log zerolog.Logger
}

// NewTableExtractor creates a table extractor with the given
// configuration. Zero-valued fields fall back to the defaults.
func NewTableExtractor(log zerolog.Logger, cfg TableConfig) *TableExtractor {
	def := DefaultTableConfig()
	if cfg.RowTolerance <= 0 {
		cfg.RowTolerance = def.RowTolerance
	}
	if cfg.CellGap <= 0 {
		cfg.CellGap = def.CellGap
	}
	if cfg.SnapTolerance <= 0 {
		cfg.SnapTolerance = def.SnapTolerance
	}
	if cfg.BlockGap <= 0 {
		cfg.BlockGap = def.BlockGap
	}
	if cfg.MinRows <= 0 {
		cfg.MinRows = def.MinRows
	}
	if cfg.MinCols <= 0 {
		cfg.MinCols = def.MinCols
	}
	return &TableExtractor{cfg: cfg, log: log}
}

// ExtractTables opens the PDF and recovers table grids from every page.
// Pages that fail to parse are skipped with a warning; the document
// fails only when it cannot be opened at all.
func (e *TableExtractor) ExtractTables(path string) (*ExtractedDocument, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	doc := &ExtractedDocument{Pages: reader.NumPage()}

	for pageNum := 1; pageNum <= doc.Pages; pageNum++ {
		tables := e.extractPage(reader, pageNum)
		doc.Tables = append(doc.Tables, tables...)
	}

	e.log.Debug().Str("path", path).Int("pages", doc.Pages).
		Int("tables", len(doc.Tables)).Msg("table extraction complete")

	return doc, nil
}

// extractPage recovers the table grids of a single page. The underlying
// content-stream parser panics on malformed pages, so the whole page is
// processed under a recover.
func (e *TableExtractor) extractPage(reader *pdf.Reader, pageNum int) (tables []transcript.RawTable) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn().Int("page", pageNum).Interface("panic", r).
				Msg("page content parsing panicked, skipping page")
			tables = nil
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return nil
	}

	rows := e.clusterRows(page.Content().Text)
	for _, block := range e.splitBlocks(rows) {
		if table, ok := e.buildGrid(block); ok {
			tables = append(tables, table)
		}
	}
	return tables
}

// textCell is one cell candidate: merged fragments sharing a run of X
// positions on one row.
type textCell struct {
	x    float64
	text string
}

// textRow is one physical row of cells, top to bottom order.
type textRow struct {
	y     float64
	cells []textCell
}

// clusterRows groups text fragments into physical rows by Y proximity,
// then merges horizontally adjacent fragments into cells.
func (e *TableExtractor) clusterRows(texts []pdf.Text) []textRow {
	if len(texts) == 0 {
		return nil
	}

	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var rows []textRow
	var current []pdf.Text
	currentY := sorted[0].Y

	flush := func() {
		if len(current) > 0 {
			rows = append(rows, textRow{y: currentY, cells: e.mergeCells(current)})
		}
		current = nil
	}

	for _, t := range sorted {
		if t.S == "" {
			continue
		}
		if len(current) == 0 {
			currentY = t.Y
		} else if math.Abs(t.Y-currentY) > e.cfg.RowTolerance {
			flush()
			currentY = t.Y
		}
		current = append(current, t)
	}
	flush()

	return rows
}

// mergeCells joins fragments of one row into cells. Fragments closer
// than CellGap belong to the same cell; a modest gap inside a cell
// becomes a space (word breaks come through as positioning, not space
// characters, in many generators).
func (e *TableExtractor) mergeCells(frags []pdf.Text) []textCell {
	sort.Slice(frags, func(i, j int) bool { return frags[i].X < frags[j].X })

	var cells []textCell
	var cur *textCell
	cursor := 0.0

	for _, f := range frags {
		gap := f.X - cursor
		switch {
		case cur == nil || gap > e.cfg.CellGap:
			cells = append(cells, textCell{x: f.X, text: f.S})
			cur = &cells[len(cells)-1]
		case gap > 1.0:
			cur.text += " " + f.S
		default:
			cur.text += f.S
		}
		end := f.X + f.W
		if end > cursor {
			cursor = end
		}
	}
	return cells
}

// splitBlocks separates rows into table blocks on large vertical gaps.
func (e *TableExtractor) splitBlocks(rows []textRow) [][]textRow {
	var blocks [][]textRow
	var current []textRow

	for _, row := range rows {
		if len(current) > 0 && current[len(current)-1].y-row.y > e.cfg.BlockGap {
			blocks = append(blocks, current)
			current = nil
		}
		current = append(current, row)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

// buildGrid turns a block of rows into a rectangular grid by snapping
// cell start positions to shared column boundaries. Blocks without
// enough multi-cell rows are rejected as prose, not tables.
func (e *TableExtractor) buildGrid(block []textRow) (transcript.RawTable, bool) {
	wide := 0
	for _, row := range block {
		if len(row.cells) >= e.cfg.MinCols {
			wide++
		}
	}
	if wide < e.cfg.MinRows {
		return nil, false
	}

	bounds := e.columnBounds(block)
	if len(bounds) < e.cfg.MinCols {
		return nil, false
	}

	grid := make(transcript.RawTable, 0, len(block))
	for _, row := range block {
		cells := make([]string, len(bounds))
		for _, cell := range row.cells {
			col := nearestColumn(bounds, cell.x)
			if cells[col] == "" {
				cells[col] = cell.text
			} else {
				cells[col] += " " + cell.text
			}
		}
		grid = append(grid, cells)
	}
	return grid, true
}

// columnBounds clusters the X start positions of every cell in the
// block into column boundaries.
func (e *TableExtractor) columnBounds(block []textRow) []float64 {
	var xs []float64
	for _, row := range block {
		for _, cell := range row.cells {
			xs = append(xs, cell.x)
		}
	}
	if len(xs) == 0 {
		return nil
	}
	sort.Float64s(xs)

	var bounds []float64
	clusterStart := xs[0]
	clusterSum := xs[0]
	clusterN := 1

	for _, x := range xs[1:] {
		if x-clusterStart <= e.cfg.SnapTolerance {
			clusterSum += x
			clusterN++
			continue
		}
		bounds = append(bounds, clusterSum/float64(clusterN))
		clusterStart = x
		clusterSum = x
		clusterN = 1
	}
	bounds = append(bounds, clusterSum/float64(clusterN))

	return bounds
}

func nearestColumn(bounds []float64, x float64) int {
	best := 0
	bestDist := math.Abs(bounds[0] - x)
	for i := 1; i < len(bounds); i++ {
		if d := math.Abs(bounds[i] - x); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
