// database/bootstrap.go
package database

import (
	"fmt"
	"log"

	sqlite "github.com/glebarez/sqlite" // CGO-free driver
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"statecu/entities"
)

// Models lists every table the server owns.
var Models = []any{
	&entities.Dataset{},
	&entities.ClimateStation{},
	&entities.CropCharacteristics{},
	&entities.BlaneyCriddle{},
	&entities.PenmanMonteith{},
	&entities.DelayTable{},
	&entities.DelayTableAssignment{},
}

// Open opens the sqlite file at path and migrates every table.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return db, nil
}

func OpenSQLite(path string) *gorm.DB {
	db, err := Open(path)
	if err != nil {
		log.Fatalf("[db] %v", err)
	}
	log.Printf("[db] opened %s", path)
	return db
}
