package models

import "time"

type ContactType string

const (
	ContactGeneral     ContactType = "GENERAL"
	ContactPartnership ContactType = "PARTNERSHIP"
	ContactMedia       ContactType = "MEDIA"
	ContactCareer      ContactType = "CAREER"
	ContactSupport     ContactType = "SUPPORT"
)

func (t ContactType) Valid() bool {
	switch t {
	case ContactGeneral, ContactPartnership, ContactMedia, ContactCareer, ContactSupport:
		return true
	}
	return false
}

// ContactStatus: NEW -> IN_PROGRESS -> RESOLVED -> ARCHIVED.
type ContactStatus string

const (
	ContactNew        ContactStatus = "NEW"
	ContactInProgress ContactStatus = "IN_PROGRESS"
	ContactResolved   ContactStatus = "RESOLVED"
	ContactArchived   ContactStatus = "ARCHIVED"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactNew, ContactInProgress, ContactResolved, ContactArchived:
		return true
	}
	return false
}

type ContactSubmission struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Company   *string       `json:"company"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Type      ContactType   `json:"type"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type ContactStatusCounts struct {
	New        int `json:"new"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
	Archived   int `json:"archived"`
}

type ContactStats struct {
	Total    int                 `json:"total"`
	ByStatus ContactStatusCounts `json:"byStatus"`
	ByType   map[string]int      `json:"byType"`
}
