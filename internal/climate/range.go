package climate

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Bounds of the observation archive.
const (
	MinYear = 1881
	MaxYear = 2006
)

var validate = validator.New()

// ChartRange is the selected data type and inclusive year range.
// The year bounds in the tags must match MinYear and MaxYear.
type ChartRange struct {
	Type  DataType `json:"type" validate:"required,oneof=temperature precipitation"`
	Start int      `json:"start" validate:"gte=1881,ltfield=End"`
	End   int      `json:"end" validate:"lte=2006"`
}

// IsValidRange reports whether MinYear <= start < end <= MaxYear.
// The data type is not considered.
func IsValidRange(r ChartRange) bool {
	return r.Start >= MinYear && r.Start < r.End && r.End <= MaxYear
}

// ValidateRange checks the whole range, type included, and describes the
// first violated constraint. The returned error wraps ErrInvalidRange or
// ErrUnknownType.
func ValidateRange(r ChartRange) error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}

	fe := verrs[0]
	switch fe.Field() {
	case "Type":
		return fmt.Errorf("%w: %q", ErrUnknownType, r.Type)
	case "Start":
		if fe.Tag() == "ltfield" {
			return fmt.Errorf("%w: start %d must be before end %d", ErrInvalidRange, r.Start, r.End)
		}
		return fmt.Errorf("%w: start %d is before %d", ErrInvalidRange, r.Start, MinYear)
	default:
		return fmt.Errorf("%w: end %d is after %d", ErrInvalidRange, r.End, MaxYear)
	}
}
