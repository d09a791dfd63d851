package booking

import (
	"errors"
	"fmt"
)

var ErrNoSelection = errors.New("no slots selected")

// DateError rejects a date the board cannot open.
type DateError struct {
	Date   string
	Reason string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid date %q: %s", e.Date, e.Reason)
}

func IsDateError(err error) bool {
	var de *DateError
	return errors.As(err, &de)
}
