package model

// Venue physical location or online slot, table venues
type Venue struct {
	VenueID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"venue_id"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	IsOnline bool   `gorm:"not null;default:false"                         json:"is_online"`
	Capacity int    `gorm:"not null;default:0"                             json:"capacity"`
	BaseModel
}

// TableName table name
func (Venue) TableName() string { return "venues" }
