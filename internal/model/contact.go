package model

import "time"

// Contact holds fields extracted from a scanned business card.
// Only Email and Name are reliably populated; everything else is
// best-effort and may be empty.
type Contact struct {
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Title     string `json:"title"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Website   string `json:"website"`
	Address   string `json:"address"`
	Notes     string `json:"notes"`
}

// StoredContact is a Contact as persisted.
type StoredContact struct {
	ID string `json:"id"`
	Contact
	CreatedAt time.Time `json:"created_at"`
}
