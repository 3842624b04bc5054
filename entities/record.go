package entities

import "math"

// Missing-value sentinels used by every StateCU record.
const (
	MissingDouble = -999.0
	MissingInt    = -999
	MissingString = ""
)

func IsMissingDouble(v float64) bool {
	return math.IsNaN(v) || math.Abs(v-MissingDouble) < 0.1
}

func IsMissingInt(v int) bool { return v == MissingInt }

// Row is the persistence envelope shared by every record table.
type Row struct {
	Key       uint `gorm:"primaryKey" json:"-"`
	DatasetID uint `gorm:"index" json:"-"`
	Seq       int  `json:"-"`
}

// Attach binds the record to a stored dataset at a file position.
func (r *Row) Attach(datasetID uint, seq int) {
	r.Key = 0
	r.DatasetID = datasetID
	r.Seq = seq
}

// Identity is the identifier/display-name pair carried by every record.
// Files that have no usable identifier column set both to the same value.
type Identity struct {
	ID   string `gorm:"column:record_id;index" json:"id"`
	Name string `json:"name"`
}

func (i Identity) RecordID() string { return i.ID }

// Record is implemented by every StateCU record type.
type Record interface {
	RecordID() string
	CreateBackup()
	RestoreOriginal()
	HasBackup() bool
}

// Problem is one validation finding. Validators return these as data.
type Problem struct {
	Component      string `json:"component"`
	ID             string `json:"id"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation"`
}

func copyInts(s []int) []int {
	if s == nil {
		return nil
	}
	return append(make([]int, 0, len(s)), s...)
}

func copyFloats(s []float64) []float64 {
	if s == nil {
		return nil
	}
	return append(make([]float64, 0, len(s)), s...)
}

func missingInts(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = MissingInt
	}
	return out
}

func missingFloats(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = MissingDouble
	}
	return out
}
