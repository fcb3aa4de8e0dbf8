// Package repo is the gorm persistence layer. Missing rows and unique
// violations come back as domain errors.
package repo

import (
	"errors"

	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

// notFound maps gorm.ErrRecordNotFound to the given domain error.
func notFound(err, as error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return as
	}
	return err
}
