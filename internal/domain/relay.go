package domain

import "time"

// RelayMessage is a public wall message; there is no ownership and no
// mutation path besides creation.
type RelayMessage struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	Name      string    `gorm:"type:text" json:"name"`
	Years     string    `gorm:"type:text" json:"years"`
	Disease   string    `gorm:"type:text" json:"disease"`
	Identity  string    `gorm:"type:text" json:"identity"`
	Text      string    `gorm:"type:text" json:"text"`
	Date      string    `gorm:"type:text" json:"date"`
	Likes     int64     `gorm:"not null;default:0" json:"likes"`
	Color     string    `gorm:"type:text" json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the database table name for RelayMessage.
func (RelayMessage) TableName() string {
	return "relay_messages"
}
