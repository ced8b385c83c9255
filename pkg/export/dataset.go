package export

import "fmt"

// Dataset defines tabular export content. Rows hold values in header order.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func (d Dataset) validate(format string) error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("%s requires at least one header", format)
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return fmt.Errorf("%s row %d has %d values, want %d", format, i, len(row), len(d.Headers))
		}
	}
	return nil
}
