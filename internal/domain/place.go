// Package domain contains the core entities of the SecretMenu server: places, orders, tags, devices and account state.
package domain

import "time"

// Place is a restaurant, cafe or store the user keeps orders for.
// Deleting a place deletes all of its orders.
type Place struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
