package entities

// ClimateStation is one record of a StateCU climate station (.cli) file.
type ClimateStation struct {
	Row
	Identity
	Latitude  float64 `json:"latitude"`
	Elevation float64 `json:"elevation"`
	Region1   string  `json:"region1"` // county
	Region2   string  `json:"region2"` // HUC
	Zh        float64 `json:"zh"`      // temperature measurement height, m
	Zm        float64 `json:"zm"`      // wind measurement height, m

	original *ClimateStation
}

func NewClimateStation(id string) *ClimateStation {
	return &ClimateStation{
		Identity:  Identity{ID: id, Name: id},
		Latitude:  MissingDouble,
		Elevation: MissingDouble,
		Zh:        MissingDouble,
		Zm:        MissingDouble,
	}
}

func (s *ClimateStation) Clone() *ClimateStation {
	c := *s
	c.original = nil
	return &c
}

func (s *ClimateStation) CreateBackup() { s.original = s.Clone() }

func (s *ClimateStation) RestoreOriginal() {
	if s.original == nil {
		return
	}
	*s = *s.original
}

func (s *ClimateStation) HasBackup() bool { return s.original != nil }
