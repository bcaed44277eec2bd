// Package models holds the persisted entity types shared by repositories
// and services.
package models

import "time"

// User is a registered PlaceHub account.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
}
