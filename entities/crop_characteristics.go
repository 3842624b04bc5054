package entities

// CropCharacteristics is one record of a StateCU crop characteristics
// (.cch) file. Months and days are calendar values; depths are feet.
type CropCharacteristics struct {
	Row
	Identity
	PlantingMonth   int `json:"planting_month"`
	PlantingDay     int `json:"planting_day"`
	HarvestMonth    int `json:"harvest_month"`
	HarvestDay      int `json:"harvest_day"`
	DaysToFullCover int `json:"days_to_full_cover"`
	LengthOfSeason  int `json:"length_of_season"`

	TempEarlyMoisture            float64 `json:"temp_early_moisture"` // deg F
	TempLateMoisture             float64 `json:"temp_late_moisture"`  // deg F
	ManagementAllowableDepletion float64 `json:"management_allowable_depletion"` // percent
	InitialRootZoneDepth         float64 `json:"initial_root_zone_depth"`
	MaxRootZoneDepth             float64 `json:"max_root_zone_depth"`
	AvailableWaterCapacity       float64 `json:"available_water_capacity"` // in/in
	MaxApplicationDepth          float64 `json:"max_application_depth"`    // inches

	SpringFrostFlag         int `json:"spring_frost_flag"` // 0 mean, 1 28F
	FallFrostFlag           int `json:"fall_frost_flag"`
	DaysBetween1stAnd2ndCut int `json:"days_between_1st_and_2nd_cut"`
	DaysBetween2ndAnd3rdCut int `json:"days_between_2nd_and_3rd_cut"`

	original *CropCharacteristics
}

func NewCropCharacteristics(name string) *CropCharacteristics {
	return &CropCharacteristics{
		Identity:                     Identity{ID: name, Name: name},
		PlantingMonth:                MissingInt,
		PlantingDay:                  MissingInt,
		HarvestMonth:                 MissingInt,
		HarvestDay:                   MissingInt,
		DaysToFullCover:              MissingInt,
		LengthOfSeason:               MissingInt,
		TempEarlyMoisture:            MissingDouble,
		TempLateMoisture:             MissingDouble,
		ManagementAllowableDepletion: MissingDouble,
		InitialRootZoneDepth:         MissingDouble,
		MaxRootZoneDepth:             MissingDouble,
		AvailableWaterCapacity:       MissingDouble,
		MaxApplicationDepth:          MissingDouble,
		SpringFrostFlag:              MissingInt,
		FallFrostFlag:                MissingInt,
		DaysBetween1stAnd2ndCut:      MissingInt,
		DaysBetween2ndAnd3rdCut:      MissingInt,
	}
}

func (c *CropCharacteristics) Clone() *CropCharacteristics {
	out := *c
	out.original = nil
	return &out
}

func (c *CropCharacteristics) CreateBackup() { c.original = c.Clone() }

func (c *CropCharacteristics) RestoreOriginal() {
	if c.original == nil {
		return
	}
	*c = *c.original
}

func (c *CropCharacteristics) HasBackup() bool { return c.original != nil }
