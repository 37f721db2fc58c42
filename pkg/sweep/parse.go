package sweep

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// ColumnOrder names which measured quantity sits in which column of a
// two-column data file.
type ColumnOrder string

const (
	// OrderIV is current in the first column, voltage in the second.
	OrderIV ColumnOrder = "IV"
	// OrderVI is voltage in the first column, current in the second.
	OrderVI ColumnOrder = "VI"
)

// ParseColumns reads a two-column instrument dump into raw current and
// voltage slices. The separator is taken as given: an empty separator
// means any run of whitespace. Leading rows that do not parse as two
// numbers (column headers, instrument banners) are skipped; once numeric
// data starts, a malformed row is an error.
func ParseColumns(content string, sep string, order ColumnOrder) (iRaw, vRaw []float64, err error) {
	if order != OrderIV && order != OrderVI {
		return nil, nil, fmt.Errorf("column order must be %q or %q, got %q", OrderIV, OrderVI, order)
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	started := false
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var fields []string
		if sep == "" {
			fields = strings.Fields(text)
		} else {
			fields = strings.Split(text, sep)
			for n := range fields {
				fields[n] = strings.TrimSpace(fields[n])
			}
		}
		if len(fields) < 2 {
			if !started {
				continue
			}
			return nil, nil, fmt.Errorf("line %d: expected two columns, got %d", line, len(fields))
		}

		a, errA := strconv.ParseFloat(fields[0], 64)
		b, errB := strconv.ParseFloat(fields[1], 64)
		if errA != nil || errB != nil {
			if !started {
				continue // header row
			}
			return nil, nil, fmt.Errorf("line %d: malformed sample %q", line, text)
		}
		started = true

		if order == OrderIV {
			iRaw = append(iRaw, a)
			vRaw = append(vRaw, b)
		} else {
			iRaw = append(iRaw, b)
			vRaw = append(vRaw, a)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading data: %w", err)
	}
	if !started {
		return nil, nil, fmt.Errorf("%w: no numeric rows found", ErrDataInsufficient)
	}
	return iRaw, vRaw, nil
}
