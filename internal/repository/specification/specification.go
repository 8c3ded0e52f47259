package specification

import "gorm.io/gorm"

// Specification is a composable query fragment applied to a GORM scope.
// Repositories take variadic specs so callers can mix filters freely.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
