// Package importer converts tabular files (CSV, TSV, Excel) into
// ledger transactions. Decoding and transaction building are separate
// steps: DecodeTable turns bytes into ordered rows, Import maps rows
// onto balanced double-entry transactions and appends them in one
// batch.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrUnsupportedFormat reports a file extension other than
	// csv/tsv/xlsx/xls.
	ErrUnsupportedFormat = errors.New("unsupported file type, upload a CSV or Excel file")

	// ErrEmptyFile reports a file with no data rows.
	ErrEmptyFile = errors.New("file contains no data")
)

// Row maps column names to cell values for one data row.
type Row map[string]string

// Table is a decoded tabular file: the header columns in file order
// and the data rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// DecodeTable decodes file bytes based on the filename extension.
// Text tables are tried as UTF-8 first and fall back to Latin-1
// (ISO 8859-1) when the bytes are not valid UTF-8.
func DecodeTable(data []byte, filename string) (*Table, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return decodeDelimited(data, ',')
	case ".tsv":
		return decodeDelimited(data, '\t')
	case ".xlsx", ".xls":
		return decodeSpreadsheet(data)
	default:
		return nil, fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
	}
}

func decodeDelimited(data []byte, comma rune) (*Table, error) {
	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode file encoding: %w", err)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}

	return tableFromRecords(records)
}

func decodeSpreadsheet(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	return tableFromRecords(records)
}

// tableFromRecords maps raw records onto column-keyed rows. The first
// record is the header; short records pad with empty cells, extra
// cells beyond the header are dropped.
func tableFromRecords(records [][]string) (*Table, error) {
	if len(records) < 2 {
		return nil, ErrEmptyFile
	}

	columns := make([]string, len(records[0]))
	for i, column := range records[0] {
		columns[i] = strings.TrimSpace(column)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(columns))
		for i, column := range columns {
			if i < len(record) {
				row[column] = strings.TrimSpace(record[i])
			} else {
				row[column] = ""
			}
		}
		rows = append(rows, row)
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

// Preview is the first slice of a decoded table, for the column
// mapping UI.
type Preview struct {
	Columns   []string `json:"columns"`
	Rows      []Row    `json:"preview"`
	TotalRows int      `json:"totalRows"`
	FileName  string   `json:"fileName"`
}

// previewRows caps how many rows a preview carries.
const previewRows = 10

// PreviewTable decodes the file and returns its header plus the first
// rows.
func PreviewTable(data []byte, filename string) (*Preview, error) {
	table, err := DecodeTable(data, filename)
	if err != nil {
		return nil, err
	}

	rows := table.Rows
	if len(rows) > previewRows {
		rows = rows[:previewRows]
	}

	return &Preview{
		Columns:   table.Columns,
		Rows:      rows,
		TotalRows: len(table.Rows),
		FileName:  filename,
	}, nil
}
