package domain

import "time"

// Constant is a typed key/value entry grouped by category. Constants
// are read often and written rarely, so lookups go through a cache.
type Constant struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
