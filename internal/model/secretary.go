package model

import "time"

// Secretary person who runs individually assigned events, table secretaries
type Secretary struct {
	SecretaryID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"secretary_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	Active      bool   `gorm:"not null;default:true"                          json:"active"`
	BaseModel

	Availability []SecretaryAvailability `gorm:"foreignKey:SecretaryID;references:SecretaryID" json:"availability,omitempty"`
}

// TableName table name
func (Secretary) TableName() string { return "secretaries" }

// SecretaryAvailability explicit day-level exception, table secretary_availability
type SecretaryAvailability struct {
	SecretaryID string    `gorm:"type:uuid;primaryKey"      json:"secretary_id"`
	Date        time.Time `gorm:"type:date;primaryKey"      json:"date"`
	IsAvailable bool      `gorm:"not null;default:true"     json:"is_available"`
	Reason      string    `gorm:"type:varchar(200)"         json:"reason,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName table name
func (SecretaryAvailability) TableName() string { return "secretary_availability" }
