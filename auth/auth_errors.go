package auth

import (
	"errors"
	"fmt"

	"github.com/jrsteele09/delivery-signin/categories"
)

var (
	InvalidAccessTokenErr = errors.New("invalid access token")
	DatasetUnavailableErr = errors.New("dataset unavailable")
	CredentialMismatchErr = errors.New("credentials do not match")
)

// DatasetError is returned when a category's dataset cannot be fetched or parsed.
// errors.Is(err, DatasetUnavailableErr) holds for it.
type DatasetError struct {
	Category categories.Category
	Err      error
}

func (e *DatasetError) Error() string {
	return fmt.Sprintf("%s dataset unavailable: %v", e.Category, e.Err)
}

func (e *DatasetError) Unwrap() error {
	return e.Err
}

func (e *DatasetError) Is(target error) bool {
	return target == DatasetUnavailableErr
}
