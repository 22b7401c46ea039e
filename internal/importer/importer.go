package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	enc "github.com/hvaldez/garage/internal/encoding"
	"github.com/hvaldez/garage/internal/product"
)

// Parser reads catalog spreadsheets exported as CSV and produces product
// params. It auto-detects the column language (Spanish or English headers)
// by matching headers against known profiles, and the delimiter by sniffing
// the header line.
type Parser struct{}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]product.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	reader := csv.NewReader(br)
	reader.Comma = detectDelimiter(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, colMap, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching catalog format found: expected name, sale price, and stock columns")
	}

	return parseRows(profile, colMap, rows[headerIdx+1:], headerIdx+1)
}

// detectDelimiter counts candidate separators in the first line. Catalog
// exports come both comma- and semicolon-separated.
func detectDelimiter(br *bufio.Reader) rune {
	buf, _ := br.Peek(4096)

	line, _, _ := strings.Cut(string(buf), "\n")
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}

	return ','
}

// colIndex maps normalized column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := normalizeHeader(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func normalizeHeader(cell string) string {
	return strings.ToLower(strings.TrimSpace(cell))
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts products from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file (for error messages).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]product.CreateParams, error) {
	var params []product.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		if isBlank(row) {
			continue
		}

		name := cellValue(row, cols, p.NameCol)
		if name == "" {
			return nil, fmt.Errorf("row %d: missing product name", rowNum)
		}

		salePrice, err := parsePrice(cellValue(row, cols, p.SalePriceCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: sale price: %w", rowNum, err)
		}

		stock, err := parseCount(cellValue(row, cols, p.StockCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: stock: %w", rowNum, err)
		}

		// Optional columns default to their zero value.
		purchasePrice, err := parseOptionalPrice(cellValue(row, cols, p.PurchasePriceCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: purchase price: %w", rowNum, err)
		}

		stockMin, err := parseOptionalCount(cellValue(row, cols, p.StockMinCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: minimum stock: %w", rowNum, err)
		}

		params = append(params, product.CreateParams{
			Name:          name,
			Description:   cellValue(row, cols, p.DescCol),
			SalePrice:     salePrice,
			PurchasePrice: purchasePrice,
			Brand:         cellValue(row, cols, p.BrandCol),
			Category:      cellValue(row, cols, p.CategoryCol),
			Stock:         stock,
			StockMin:      stockMin,
			Barcode:       cellValue(row, cols, p.BarcodeCol),
			AutoPart:      parseAutoPart(row, cols, p),
		})
	}

	return params, nil
}

// parseAutoPart builds the part-specific fields when the row carries a
// vehicle model. Plain products leave those columns empty.
func parseAutoPart(row []string, cols colIndex, p *Profile) *product.AutoPart {
	model := cellValue(row, cols, p.VehicleModelCol)
	if model == "" {
		return nil
	}

	year, err := parseOptionalCount(cellValue(row, cols, p.VehicleYearCol))
	if err != nil {
		year = 0
	}

	return &product.AutoPart{VehicleModel: model, VehicleYear: int(year)}
}

func parseCount(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("missing value")
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", s)
	}

	if n < 0 {
		return 0, fmt.Errorf("negative count %q", s)
	}

	return n, nil
}

func parseOptionalCount(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}

	return parseCount(s)
}

func parseOptionalPrice(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}

	return parsePrice(s)
}

// cellValue safely gets a trimmed cell value for a named column.
// Columns absent from the header resolve to an empty string.
func cellValue(row []string, cols colIndex, name string) string {
	idx, ok := cols[name]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
