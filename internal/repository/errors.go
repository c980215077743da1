package repository

import (
	"errors"

	"gorm.io/gorm"
)

// translate maps gorm's record-not-found onto the domain sentinel.
func translate(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
