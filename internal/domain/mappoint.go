package domain

// MapPoint aggregates how many visitors marked a country/province pair.
// The pair is unique; repeated adds bump Count instead of inserting.
type MapPoint struct {
	ID       string  `gorm:"type:text;primaryKey" json:"id"`
	Country  string  `gorm:"type:text;not null;index:idx_map_points_place,unique" json:"country"`
	Province string  `gorm:"type:text;not null;index:idx_map_points_place,unique" json:"province"`
	Lat      float64 `gorm:"not null" json:"lat"`
	Lng      float64 `gorm:"not null" json:"lng"`
	Count    int64   `gorm:"not null;default:0" json:"count"`
}

// TableName returns the database table name for MapPoint.
func (MapPoint) TableName() string {
	return "map_points"
}
