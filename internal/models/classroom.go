package models

// Classroom is a bookable room.
type Classroom struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Capacity int    `db:"capacity" json:"capacity"`
	Active   bool   `db:"active" json:"active"`
}
