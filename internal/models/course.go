package models

// Course is a teachable unit bound to one academic level.
type Course struct {
	ID      string `db:"id" json:"id"`
	Code    string `db:"code" json:"code"`
	Name    string `db:"name" json:"name"`
	LevelID string `db:"level_id" json:"level_id"`
	Active  bool   `db:"active" json:"active"`
}
