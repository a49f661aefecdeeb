package sheets

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"CreativeAnalytics/internal/domain"
	"CreativeAnalytics/internal/loader"
)

// XLSXLoader reads one sheet of an Excel workbook.
type XLSXLoader struct{}

var _ loader.Loader = (*XLSXLoader)(nil)

// NewXLSXLoader builds the workbook strategy.
func NewXLSXLoader() *XLSXLoader {
	return &XLSXLoader{}
}

// Name identifies the strategy inside the registry.
func (x *XLSXLoader) Name() string {
	return "xlsx"
}

// Load returns the raw cell values of the requested sheet; dates stay Excel serials.
func (x *XLSXLoader) Load(ctx context.Context, req loader.Request) (domain.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return domain.RawTable{}, err
	}

	f, err := excelize.OpenFile(req.Path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open workbook %s: %w", req.Path, err)
	}
	defer f.Close()

	sheet := req.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		return domain.RawTable{}, fmt.Errorf("sheet %q not found in %s", sheet, req.Path)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	header, body, line := loader.SplitHeader(rows)
	if header == nil {
		return domain.RawTable{}, fmt.Errorf("sheet %q has no header row", sheet)
	}

	return loader.BuildTable(req.Source, header, body, line), nil
}
