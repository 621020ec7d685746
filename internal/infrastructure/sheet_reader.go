package infrastructure

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"chartgo/internal/domain"
	"chartgo/pkg/logger"
)

// sheetPreference is checked in order against lowercased sheet names.
var sheetPreference = []string{"blocking", "chart", "data"}

type fileKind int

const (
	kindUnsupported fileKind = iota
	kindWorkbook
	kindDelimited
)

// implements domain.SheetReader interface
type SheetReader struct {
	logger *logger.Logger
}

func NewSheetReader(logger *logger.Logger) *SheetReader {
	return &SheetReader{logger: logger}
}

// ListSheets returns the workbook's sheet names and the preferred one.
// Delimited text files have no sheets.
func (r *SheetReader) ListSheets(fileName string, data []byte) (*domain.SheetList, error) {
	if len(data) == 0 {
		return nil, domain.ErrEmptyFile
	}

	list := &domain.SheetList{FileName: fileName, Sheets: []string{}}

	switch kindOf(fileName) {
	case kindWorkbook:
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook %s: %w", fileName, err)
		}
		defer f.Close()

		list.Sheets = f.GetSheetList()
		list.Best = BestSheet(list.Sheets)
	case kindDelimited:
	default:
		return nil, fmt.Errorf("%s: %w", fileName, domain.ErrUnsupportedFile)
	}

	return list, nil
}

// ReadSheet returns every row of the requested sheet with cells trimmed.
// An empty sheet name selects the preferred sheet. The name of the sheet
// actually read is returned alongside the rows.
func (r *SheetReader) ReadSheet(fileName string, data []byte, sheet string) ([][]string, string, error) {
	if len(data) == 0 {
		return nil, "", domain.ErrEmptyFile
	}

	switch kindOf(fileName) {
	case kindWorkbook:
		return r.readWorkbook(fileName, data, sheet)
	case kindDelimited:
		rows, err := r.readDelimited(fileName, data)
		return rows, "", err
	default:
		return nil, "", fmt.Errorf("%s: %w", fileName, domain.ErrUnsupportedFile)
	}
}

func (r *SheetReader) readWorkbook(fileName string, data []byte, sheet string) ([][]string, string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open workbook %s: %w", fileName, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, "", domain.ErrEmptyFile
	}

	if sheet == "" {
		sheet = BestSheet(sheets)
	} else if !slices.Contains(sheets, sheet) {
		return nil, "", fmt.Errorf("%s in %s: %w", sheet, fileName, domain.ErrSheetNotFound)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	for _, row := range rows {
		trimCells(row)
	}

	r.logger.WithFields(map[string]any{
		"file":  fileName,
		"sheet": sheet,
		"rows":  len(rows),
	}).Debug("Read workbook sheet")

	return rows, sheet, nil
}

func (r *SheetReader) readDelimited(fileName string, data []byte) ([][]string, error) {
	decoded, err := decodeText(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", fileName, err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.Comma = delimiterFor(fileName, decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", fileName, err)
		}
		rows = append(rows, trimCells(record))
	}

	if len(rows) == 0 {
		return nil, domain.ErrEmptyFile
	}

	r.logger.WithFields(map[string]any{
		"file": fileName,
		"rows": len(rows),
	}).Debug("Read delimited file")

	return rows, nil
}

// BestSheet picks the first sheet whose name mentions "blocking", then
// "chart", then "data"; otherwise the first sheet.
func BestSheet(sheets []string) string {
	if len(sheets) == 0 {
		return ""
	}
	for _, pref := range sheetPreference {
		for _, name := range sheets {
			if strings.Contains(strings.ToLower(name), pref) {
				return name
			}
		}
	}
	return sheets[0]
}

func kindOf(fileName string) fileKind {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm":
		return kindWorkbook
	case ".csv", ".tsv", ".txt":
		return kindDelimited
	default:
		return kindUnsupported
	}
}

func delimiterFor(fileName string, data []byte) rune {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".tsv":
		return '\t'
	case ".txt":
		firstLine, _, _ := bytes.Cut(data, []byte("\n"))
		if bytes.Contains(firstLine, []byte("\t")) {
			return '\t'
		}
	}
	return ','
}

// decodeText converts the file to UTF-8. A byte order mark selects UTF-8 or
// UTF-16; text without one that is not valid UTF-8 is read as Windows-1252.
func decodeText(data []byte) ([]byte, error) {
	if hasBOM(data) {
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
		return out, err
	}
	if utf8.Valid(data) {
		return data, nil
	}
	out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	return out, err
}

func hasBOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(data, []byte{0xFE, 0xFF}) ||
		bytes.HasPrefix(data, []byte{0xFF, 0xFE})
}

func trimCells(cells []string) []string {
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}
