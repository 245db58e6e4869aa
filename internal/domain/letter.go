package domain

import "time"

// Letter is a private note bound to the device that wrote it.
type Letter struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	DeviceID  string    `gorm:"type:text;not null;index:idx_letters_device" json:"deviceId"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Date      string    `gorm:"type:text;not null" json:"date"`
	Color     string    `gorm:"type:text;not null" json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the database table name for Letter.
func (Letter) TableName() string {
	return "letters"
}
