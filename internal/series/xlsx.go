package series

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// LoadWorkbook reads the first sheet of an Excel workbook as the same
// six-column positional table Load expects, then applies the identical
// clean/truncate path. Rows shorter than six cells contribute missing
// values for the absent columns rather than failing the parse.
func LoadWorkbook(r io.Reader, maxDays int) (PriceSeries, VolumeSeries, error) {
	if maxDays <= 0 {
		return nil, nil, fmt.Errorf("series: max days must be positive, got %d", maxDays)
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: workbook has no sheets", ErrParse)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	// excelize trims trailing empty cells per row; the schema check uses
	// the widest row, so a sheet qualifies as long as any row reaches the
	// volume column.
	return fromRows(rows, maxDays)
}
