package dto

// CreateVenueRequest create a venue
type CreateVenueRequest struct {
	Name     string `json:"name"      binding:"required,min=2,max=100"`
	IsOnline bool   `json:"is_online"`
	Capacity int    `json:"capacity"  binding:"min=0"`
}

// VenueResponse venue
type VenueResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsOnline bool   `json:"is_online"`
	Capacity int    `json:"capacity"`
}
