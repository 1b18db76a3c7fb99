package mysql

import (
	"errors"

	"gorm.io/gorm"
)

// notFound swaps gorm's sentinel for the domain one so callers never import gorm.
func notFound(err, domainErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainErr
	}
	return err
}
