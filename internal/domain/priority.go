package domain

// Priority is a seeded lookup value ordering tasks by urgency.
// Rows are created by the bootstrap seeder and are read-only through the API.
type Priority struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
