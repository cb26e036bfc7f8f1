package domain

import "time"

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type User struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Address     string       `json:"address,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// NewUser is the create input. Exactly one of Address / Coordinates is
// expected; the other half is derived by geocoding.
type NewUser struct {
	Name        string
	Email       string
	Address     string
	Coordinates *Coordinates
}

// UserPatch carries a partial update. Nil fields are left untouched.
type UserPatch struct {
	Name        *string
	Email       *string
	Address     *string
	Coordinates *Coordinates
}
