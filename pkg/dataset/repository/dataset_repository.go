package repository

import (
	"statecu/entities"
	"statecu/pkg/statecu"
)

type DatasetRepository interface {
	// Create stores the dataset row and its records in one transaction.
	Create(meta *entities.Dataset, ds *statecu.Dataset) error
	FindByToken(token string) (*entities.Dataset, error)
	List() ([]entities.Dataset, error)
	// Records loads the records of meta's component in file order.
	Records(meta *entities.Dataset) (*statecu.Dataset, error)
	SaveRecord(rec entities.Record) error
	Delete(meta *entities.Dataset) error
}
