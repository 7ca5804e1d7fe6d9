package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	srvErrors "github.com/mlx-qa/mlx-e2e/pkg/errors"
)

var validate = validator.New()

// Parse decodes data into T and checks its validate tags.
// Any shape mismatch is returned as a ValidationError naming T.
func Parse[T any](data []byte) (*T, error) {
	var v T
	name := modelName(v)

	if err := json.Unmarshal(data, &v); err != nil {
		return nil, srvErrors.NewValidationError(name, err)
	}

	if err := validate.Struct(v); err != nil {
		return nil, srvErrors.NewValidationError(name, err)
	}

	return &v, nil
}

func modelName(v any) string {
	name := fmt.Sprintf("%T", v)
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
