package entities

// DelayTable is a return-flow timing distribution: percent of diverted
// water returning in each period after diversion.
type DelayTable struct {
	Row
	Identity
	Values []float64 `gorm:"serializer:json" json:"values"`

	original *DelayTable
}

func NewDelayTable(id string) *DelayTable {
	return &DelayTable{Identity: Identity{ID: id, Name: id}}
}

func (d *DelayTable) Clone() *DelayTable {
	c := *d
	c.original = nil
	c.Values = copyFloats(d.Values)
	return &c
}

func (d *DelayTable) CreateBackup() { d.original = d.Clone() }

func (d *DelayTable) RestoreOriginal() {
	if d.original == nil {
		return
	}
	*d = *d.original
}

func (d *DelayTable) HasBackup() bool { return d.original != nil }
