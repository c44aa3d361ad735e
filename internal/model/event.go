package model

import "time"

// EventType identifies the kind of scheduled occurrence.
type EventType string

const (
	EventTypePanel           EventType = "Panel"
	EventTypeCarousel        EventType = "Carousel"
	EventTypeTeamResidential EventType = "TeamResidential"
	EventTypeTraining        EventType = "Training"
	EventTypeConference      EventType = "Conference"
	EventTypeCandidatesPanel EventType = "CandidatesPanel"

	// EventTypeAvailability is synthesised for calendar display only and is
	// never persisted.
	EventTypeAvailability EventType = "Availability"
)

// Valid reports whether t is a persistable event type.
func (t EventType) Valid() bool {
	switch t {
	case EventTypePanel, EventTypeCarousel, EventTypeTeamResidential,
		EventTypeTraining, EventTypeConference, EventTypeCandidatesPanel:
		return true
	}
	return false
}

// IsSpecial reports whether events of this type affect a set of impacted
// secretaries instead of being run by one.
func (t EventType) IsSpecial() bool {
	switch t {
	case EventTypeTeamResidential, EventTypeTraining, EventTypeConference:
		return true
	}
	return false
}

// IsIndividual reports whether events of this type are run by a single
// secretary and take part in rest-period and quota rules.
func (t EventType) IsIndividual() bool {
	return t == EventTypePanel || t == EventTypeCarousel
}

// EventStatus is the booking state of an event.
type EventStatus string

const (
	EventStatusConfirmed EventStatus = "Confirmed"
	EventStatusBooked    EventStatus = "Booked"
	EventStatusAvailable EventStatus = "Available"
	EventStatusCancelled EventStatus = "Cancelled"
)

// Valid reports whether s is a known status.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusConfirmed, EventStatusBooked, EventStatusAvailable, EventStatusCancelled:
		return true
	}
	return false
}

// Event scheduled assessment event, table events
type Event struct {
	EventID              string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	Type                 EventType   `gorm:"type:varchar(30);not null"                      json:"type"`
	PanelNumber          string      `gorm:"type:varchar(50)"                               json:"panel_number,omitempty"`
	HelperPanelID        *int        `json:"helper_panel_id,omitempty"`
	Date                 time.Time   `gorm:"type:date;not null"                             json:"date"`
	Time                 *string     `gorm:"type:varchar(5)"                                json:"time,omitempty"` // HH:mm, Carousel only
	WeekNumber           int         `gorm:"type:smallint;not null"                         json:"week_number"`
	VenueID              string      `gorm:"type:uuid;not null"                             json:"venue_id"`
	SecretaryID          *string     `gorm:"type:uuid"                                      json:"secretary_id,omitempty"`
	ImpactedSecretaryIDs StringArray `gorm:"type:text[]"                                    json:"impacted_secretary_ids,omitempty"`
	Status               EventStatus `gorm:"type:varchar(20);not null;default:'Booked'"     json:"status"`
	EstimatedAttendance  int         `gorm:"not null;default:0"                             json:"estimated_attendance"`
	ActualAttendance     int         `gorm:"not null;default:0"                             json:"actual_attendance"`
	ReportDate           *time.Time  `gorm:"type:date"                                      json:"report_date,omitempty"`
	ReportDeadline       *time.Time  `gorm:"type:date"                                      json:"report_deadline,omitempty"`
	Notes                string      `gorm:"type:text"                                      json:"notes,omitempty"`
	VersionedModel

	Venue     *Venue     `gorm:"foreignKey:VenueID;references:VenueID"         json:"venue,omitempty"`
	Secretary *Secretary `gorm:"foreignKey:SecretaryID;references:SecretaryID" json:"secretary,omitempty"`
}

// TableName table name
func (Event) TableName() string { return "events" }

// IsActive reports whether the event takes part in validation.
func (e *Event) IsActive() bool {
	return e.Status != EventStatusCancelled
}

// SecretaryRef returns the assigned secretary ID, or "" for special events.
func (e *Event) SecretaryRef() string {
	if e.SecretaryID == nil {
		return ""
	}
	return *e.SecretaryID
}

// SecretaryName returns the preloaded secretary name, falling back to the ID.
func (e *Event) SecretaryName() string {
	if e.Secretary != nil && e.Secretary.Name != "" {
		return e.Secretary.Name
	}
	return e.SecretaryRef()
}

// TimeOfDay returns the stored HH:mm or "".
func (e *Event) TimeOfDay() string {
	if e.Time == nil {
		return ""
	}
	return *e.Time
}
