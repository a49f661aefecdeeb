package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Excel serial day numbers accepted as dates (1900-01-01 .. 9999-12-31).
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// DateParser turns heterogeneous date strings into UTC calendar dates.
type DateParser struct {
	layouts []string
}

// NewDateParser builds a parser trying layouts in order.
func NewDateParser(layouts []string) DateParser {
	return DateParser{layouts: layouts}
}

// Parse returns the canonical date; the second result is true for blank input.
func (p DateParser) Parse(raw string) (time.Time, bool, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, true, nil
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("serial date %q: %w", raw, err)
		}
		return truncateDay(t), false, nil
	}

	for _, layout := range p.layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return truncateDay(t), false, nil
		}
	}

	return time.Time{}, false, fmt.Errorf("unrecognized date %q", raw)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
