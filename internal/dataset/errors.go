package dataset

import "fmt"

// DataLoadError reports a missing or malformed source table. It is fatal:
// nothing is usable until the data is fixed.
type DataLoadError struct {
	Path   string
	Row    int // 1-based data row, 0 when not row specific
	Column string
	Err    error
}

func (e *DataLoadError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("loading %s: row %d, column %q: %v", e.Path, e.Row, e.Column, e.Err)
	case e.Row > 0:
		return fmt.Sprintf("loading %s: row %d: %v", e.Path, e.Row, e.Err)
	case e.Column != "":
		return fmt.Sprintf("loading %s: column %q: %v", e.Path, e.Column, e.Err)
	}
	return fmt.Sprintf("loading %s: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}
