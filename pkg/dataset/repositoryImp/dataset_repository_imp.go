package repositoryImp

import (
	"fmt"

	"gorm.io/gorm"

	"statecu/entities"
	"statecu/pkg/dataset/repository"
	"statecu/pkg/statecu"
)

type datasetRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.DatasetRepository { return &datasetRepo{db} }

// recordModels lists one zero value per record table.
var recordModels = []any{
	&entities.ClimateStation{},
	&entities.CropCharacteristics{},
	&entities.BlaneyCriddle{},
	&entities.PenmanMonteith{},
	&entities.DelayTable{},
	&entities.DelayTableAssignment{},
}

func (r *datasetRepo) Create(meta *entities.Dataset, ds *statecu.Dataset) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(meta).Error; err != nil {
			return err
		}
		id := meta.DatasetID
		if err := createRecords(tx, id, ds.ClimateStations); err != nil {
			return err
		}
		if err := createRecords(tx, id, ds.CropCharacteristics); err != nil {
			return err
		}
		if err := createRecords(tx, id, ds.BlaneyCriddle); err != nil {
			return err
		}
		if err := createRecords(tx, id, ds.PenmanMonteith); err != nil {
			return err
		}
		if err := createRecords(tx, id, ds.DelayTables); err != nil {
			return err
		}
		return createRecords(tx, id, ds.DelayTableAssignments)
	})
}

type attachable interface {
	Attach(datasetID uint, seq int)
}

func createRecords[T any, P interface {
	*T
	attachable
}](tx *gorm.DB, datasetID uint, recs []P) error {
	out := make([]P, 0, len(recs))
	for _, rec := range recs {
		if (*T)(rec) == nil {
			continue
		}
		rec.Attach(datasetID, len(out))
		out = append(out, rec)
	}
	if len(out) == 0 {
		return nil
	}
	return tx.CreateInBatches(out, 200).Error
}

func (r *datasetRepo) FindByToken(token string) (*entities.Dataset, error) {
	var d entities.Dataset
	if err := r.db.Where("token = ?", token).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *datasetRepo) List() ([]entities.Dataset, error) {
	var out []entities.Dataset
	return out, r.db.Order("created_at desc, dataset_id desc").Find(&out).Error
}

func (r *datasetRepo) Records(meta *entities.Dataset) (*statecu.Dataset, error) {
	c, err := statecu.ParseComponent(meta.Component)
	if err != nil {
		return nil, err
	}
	ds := &statecu.Dataset{}
	q := r.db.Where("dataset_id = ?", meta.DatasetID).Order("seq asc")
	switch c {
	case statecu.ComponentClimateStations:
		err = q.Find(&ds.ClimateStations).Error
	case statecu.ComponentCropCharacteristics:
		err = q.Find(&ds.CropCharacteristics).Error
	case statecu.ComponentBlaneyCriddle:
		err = q.Find(&ds.BlaneyCriddle).Error
	case statecu.ComponentPenmanMonteith:
		err = q.Find(&ds.PenmanMonteith).Error
	case statecu.ComponentDelayTables:
		err = q.Find(&ds.DelayTables).Error
	case statecu.ComponentDelayTableAssignments:
		err = q.Find(&ds.DelayTableAssignments).Error
	}
	if err != nil {
		return nil, fmt.Errorf("load %s records: %w", c, err)
	}
	return ds, nil
}

func (r *datasetRepo) SaveRecord(rec entities.Record) error { return r.db.Save(rec).Error }

func (r *datasetRepo) Delete(meta *entities.Dataset) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range recordModels {
			if err := tx.Where("dataset_id = ?", meta.DatasetID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(meta).Error
	})
}
