package model

import "time"

type User struct {
	ID   int    `json:"id" toml:"id"`
	Name string `json:"name" toml:"name"`
}

type Item struct {
	ID   int    `json:"id" toml:"id"`
	Name string `json:"name" toml:"name"`
}

// Order is the unit of live state. Timestamp is always assigned by the
// store; values supplied by callers are discarded.
type Order struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Item      string    `json:"item"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}
