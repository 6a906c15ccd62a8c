package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCSV_Digest(t *testing.T) {
	src := "Slogan,Owner\nShip early,Ann\nCut scope,Bo\n,\nSay less,Cam\nMean it,Dee\nRepeat,Eli\n"
	out := CSV([]byte(src), 5000, 8)
	require.Equal(t, StatusExtracted, out.Status)

	assert.Contains(t, out.Text, "## CSV / Slogan")
	assert.Contains(t, out.Text, "- Ship early")
	assert.Contains(t, out.Text, "- Mean it")
	assert.Contains(t, out.Text, "## CSV / Owner")

	// Source row order is preserved within a column.
	first := strings.Index(out.Text, "- Ship early")
	last := strings.Index(out.Text, "- Repeat")
	assert.Less(t, first, last)
}

func TestCSV_RowsPerColumnCap(t *testing.T) {
	rows := []string{"Col"}
	for i := 0; i < 20; i++ {
		rows = append(rows, "value")
	}
	out := CSV([]byte(strings.Join(rows, "\n")), 5000, 3)
	require.Equal(t, StatusExtracted, out.Status)
	assert.Equal(t, 3, strings.Count(out.Text, "- value"))
}

func TestCSV_CellCap(t *testing.T) {
	long := strings.Repeat("x", 500)
	out := CSV([]byte("Col\n"+long+"\n"), 5000, 8)
	require.Equal(t, StatusExtracted, out.Status)
	for _, line := range strings.Split(out.Text, "\n") {
		if strings.HasPrefix(line, "- ") {
			assert.LessOrEqual(t, len(line)-2, sheetCellCap)
		}
	}
}

func TestCSV_UnnamedColumnGetsLetter(t *testing.T) {
	// Second column has data but no header cell.
	out := CSV([]byte("Name,\nAnn,admin\nBo,editor\n"), 5000, 8)
	require.Equal(t, StatusExtracted, out.Status)
	assert.Contains(t, out.Text, "## CSV / B")
	assert.Contains(t, out.Text, "- admin")
}

func buildWorkbook(t *testing.T, sheets map[string][][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range rows {
			for c, v := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(name, cell, v))
			}
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestWorkbook_SingleColumnDigest(t *testing.T) {
	data := buildWorkbook(t, map[string][][]any{
		"Notes": {
			{"Phrase"},
			{"keep it blunt"},
			{"no hedging"},
			{""},
			{"short sentences"},
			{"end on the verb"},
			{"cut the intro"},
		},
	})
	out := Workbook(data, 5000, 8)
	require.Equal(t, StatusExtracted, out.Status)
	assert.Contains(t, out.Text, "## Notes / Phrase")
	// Five distinct non-empty values, all present, in row order.
	want := []string{"keep it blunt", "no hedging", "short sentences", "end on the verb", "cut the intro"}
	pos := -1
	for _, w := range want {
		i := strings.Index(out.Text, "- "+w)
		require.GreaterOrEqual(t, i, 0, w)
		assert.Greater(t, i, pos)
		pos = i
	}
}

func TestWorkbook_GarbageIsParseFailure(t *testing.T) {
	out := Workbook([]byte("not a zip"), 5000, 8)
	assert.Equal(t, StatusParseFailed, out.Status)
}

func TestColumnLetter(t *testing.T) {
	assert.Equal(t, "A", columnLetter(0))
	assert.Equal(t, "Z", columnLetter(25))
	assert.Equal(t, "AA", columnLetter(26))
	assert.Equal(t, "AB", columnLetter(27))
}
