package domain

import "time"

// Mascot is the stored artifact of one audio-to-image generation run.
// Transcript and ImageURL may both be empty: the pipeline degrades softly
// when the image vendor is unconfigured or persistence fails, and an
// unintelligible-but-accepted recording yields an empty transcript.
type Mascot struct {
	ID         string    `gorm:"type:text;primaryKey" json:"id"`
	DeviceID   string    `gorm:"type:text;index:idx_mascots_device" json:"deviceId"`
	Transcript string    `gorm:"type:text" json:"textPrompt"`
	ImageURL   string    `gorm:"type:text" json:"imageUrl"`
	Width      int       `json:"width,omitempty"`
	Height     int       `json:"height,omitempty"`
	Format     string    `gorm:"type:text" json:"format,omitempty"`
	Likes      int64     `gorm:"not null;default:0" json:"likes"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName returns the database table name for Mascot.
func (Mascot) TableName() string {
	return "mascots"
}
