package entities

type DelayAssignment struct {
	DelayTableID string  `json:"delay_table_id"`
	Percent      float64 `json:"percent"`
}

// DelayTableAssignment assigns a structure's return flows to delay tables.
type DelayTableAssignment struct {
	Row
	Identity
	Assignments []DelayAssignment `gorm:"serializer:json" json:"assignments"`

	original *DelayTableAssignment
}

func NewDelayTableAssignment(id string) *DelayTableAssignment {
	return &DelayTableAssignment{Identity: Identity{ID: id, Name: id}}
}

func (a *DelayTableAssignment) Clone() *DelayTableAssignment {
	c := *a
	c.original = nil
	if a.Assignments != nil {
		c.Assignments = append(make([]DelayAssignment, 0, len(a.Assignments)), a.Assignments...)
	}
	return &c
}

func (a *DelayTableAssignment) CreateBackup() { a.original = a.Clone() }

func (a *DelayTableAssignment) RestoreOriginal() {
	if a.original == nil {
		return
	}
	*a = *a.original
}

func (a *DelayTableAssignment) HasBackup() bool { return a.original != nil }
