package db

import "gorm.io/gorm"

// Database abstracts the store handle so repositories and tests can swap the
// backing driver.
type Database interface {
	GetDB() *gorm.DB
}

type GormDatabase struct {
	DB *gorm.DB
}

func (g *GormDatabase) GetDB() *gorm.DB { return g.DB }
