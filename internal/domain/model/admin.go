package model

import "time"

// Admin is a back-office operator allowed to reconcile and advance orders.
type Admin struct {
	ID           int64
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}
