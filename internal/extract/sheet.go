package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Tabular inputs become a digest of naming and phrasing, not a row dump:
// per column, a handful of sample values. Enough to evidence vocabulary
// without detonating the prompt budget on data.
const (
	maxDigestSheets  = 5
	defaultSheetRows = 8
	sheetCellCap     = 160
)

// Workbook digests an XLSX workbook. Open failure is a parse failure; a
// sheet that fails to read is skipped and the remaining sheets still
// produce a digest (per-sheet failure granularity).
func Workbook(data []byte, maxChars, rowsPerCol int) Outcome {
	if maxChars <= 0 {
		return empty
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return parseFailed
	}
	defer f.Close()

	sheets := f.GetSheetList()
	var sections []string
	for i, name := range sheets {
		if i >= maxDigestSheets {
			sections = append(sections, fmt.Sprintf("(%d additional sheets omitted)", len(sheets)-maxDigestSheets))
			break
		}
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if s := digestSheet(name, rows, rowsPerCol); s != "" {
			sections = append(sections, s)
		}
	}
	return extracted(clamp(strings.Join(sections, "\n\n"), maxChars, TruncatedMarker))
}

// CSV digests comma-separated data as a single-sheet workbook.
func CSV(data []byte, maxChars, rowsPerCol int) Outcome {
	if maxChars <= 0 {
		return empty
	}
	r := csv.NewReader(strings.NewReader(decodeLossy(data)))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return parseFailed
	}
	return extracted(clamp(digestSheet("CSV", rows, rowsPerCol), maxChars, TruncatedMarker))
}

// digestSheet renders one sheet: per column a header line naming the column
// followed by up to rowsPerCol bulleted sample values in source row order.
// The first row names columns; columns it does not name get their
// spreadsheet-style letter.
func digestSheet(sheet string, rows [][]string, rowsPerCol int) string {
	if len(rows) == 0 {
		return ""
	}
	if rowsPerCol <= 0 {
		rowsPerCol = defaultSheetRows
	}
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	header := rows[0]
	var b strings.Builder
	for c := 0; c < cols; c++ {
		name := ""
		if c < len(header) {
			name = strings.TrimSpace(header[c])
		}
		if name == "" {
			name = columnLetter(c)
		}
		var samples []string
		for _, row := range rows[1:] {
			if len(samples) >= rowsPerCol {
				break
			}
			if c >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c])
			if v == "" {
				continue
			}
			samples = append(samples, capCell(v))
		}
		if len(samples) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "## %s / %s\n", sheet, capCell(name))
		for _, s := range samples {
			b.WriteString("- ")
			b.WriteString(s)
			b.WriteByte('\n')
		}
	}
	return strings.TrimSpace(b.String())
}

func capCell(v string) string {
	r := []rune(v)
	if len(r) <= sheetCellCap {
		return v
	}
	return string(r[:sheetCellCap])
}

// columnLetter converts a zero-based index to A, B, ..., Z, AA, AB, ...
func columnLetter(i int) string {
	var s string
	for i >= 0 {
		s = string(rune('A'+i%26)) + s
		i = i/26 - 1
	}
	return s
}
