package models

import "time"

type NewsletterSubscription struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           *string    `json:"name"`
	IsActive       bool       `json:"isActive"`
	SubscribedAt   time.Time  `json:"subscribedAt"`
	UnsubscribedAt *time.Time `json:"unsubscribedAt"`
}

type NewsletterStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}
