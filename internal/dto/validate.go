package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// firstFailure runs struct validation and returns the failing tags keyed by
// field name. A nil map means the value is valid.
func firstFailure(s any) (map[string]string, error) {
	err := validate.Struct(s)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	failed := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		failed[fe.Field()] = fe.Tag()
	}
	return failed, nil
}

func hasTag(failed map[string]string, tag string) bool {
	for _, t := range failed {
		if t == tag {
			return true
		}
	}
	return false
}
