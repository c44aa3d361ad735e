package repository

import "gorm.io/gorm"

// Repository aggregates every repository
type Repository struct {
	Event     EventRepository
	Secretary SecretaryRepository
	Venue     VenueRepository
	TermDate  TermDateRepository
}

// NewRepository builds the aggregate
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Event:     NewEventRepo(db),
		Secretary: NewSecretaryRepo(db),
		Venue:     NewVenueRepo(db),
		TermDate:  NewTermDateRepo(db),
	}
}
