package excel

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"revenuelens/internal/model"
	"revenuelens/internal/parser"
	apperrors "revenuelens/pkg/errors"
)

// Table 读取后的表格：规范化表头 + 原始行
type Table struct {
	Sheet   string         `json:"sheet,omitempty"`
	Headers []string       `json:"headers"`
	Rows    []model.RawRow `json:"-"`
}

// Parser 导出文件读取器（CSV / XLSX）
type Parser struct{}

// NewParser 创建读取器
func NewParser() *Parser {
	return &Parser{}
}

var (
	errEmptyFile = errors.New("empty file")
	errNoHeader  = errors.New("no header row")
	errNotText   = errors.New("content is neither a workbook nor UTF-8 text")
)

// LoadFile 按扩展名读取文件；无法作为表格解析时返回 FILE_UNREADABLE
func (p *Parser) LoadFile(name string, reader io.Reader) (*Table, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, apperrors.NewFileUnreadableError(name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, apperrors.NewFileUnreadableError(name, errEmptyFile)
	}

	var table *Table
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		table, err = p.loadWorkbook(data)
	default:
		table, err = p.loadDelimited(data)
	}
	if err != nil {
		return nil, apperrors.NewFileUnreadableError(name, err)
	}
	return table, nil
}

func (p *Parser) loadWorkbook(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()

	// 取第一个含表头的工作表；原始值保留 Excel 序列日期与未格式化数字
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			continue
		}
		table, err := buildTable(rows)
		if errors.Is(err, errNoHeader) {
			continue
		}
		if err != nil {
			return nil, err
		}
		table.Sheet = sheet
		return table, nil
	}
	return nil, errNoHeader
}

func (p *Parser) loadDelimited(data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return nil, errNotText
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read delimited text: %w", err)
	}
	return buildTable(rows)
}

// sniffDelimiter 根据首行中出现次数最多的分隔符判断（, ; \t），默认逗号
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}

	best, bestCount := ',', 0
	inQuotes := false
	counts := map[rune]int{}
	for _, r := range string(line) {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ',', ';', '\t':
			if !inQuotes {
				counts[r]++
			}
		}
	}
	for _, d := range []rune{',', ';', '\t'} {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

// buildTable 第一个非空行作为表头；空白表头列被忽略，重复表头以首列为准
func buildTable(rows [][]string) (*Table, error) {
	headerIdx := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, errNoHeader
	}

	rawHeaders := rows[headerIdx]
	headers := make([]string, 0, len(rawHeaders))
	columns := make([]int, 0, len(rawHeaders))
	seen := make(map[string]struct{}, len(rawHeaders))
	for col, h := range rawHeaders {
		name := parser.NormalizeColumnName(h)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		headers = append(headers, name)
		columns = append(columns, col)
	}
	if len(headers) == 0 {
		return nil, errNoHeader
	}

	table := &Table{
		Headers: headers,
		Rows:    make([]model.RawRow, 0, len(rows)-headerIdx-1),
	}
	for _, row := range rows[headerIdx+1:] {
		if isBlankRow(row) {
			continue
		}
		raw := make(model.RawRow, len(headers))
		for i, col := range columns {
			if v := getCell(row, col); v != "" {
				raw[headers[i]] = v
			}
		}
		table.Rows = append(table.Rows, raw)
	}
	return table, nil
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
