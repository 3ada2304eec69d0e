// Package activities provides scheduling of calls, meetings, tasks and
// follow-ups against leads and customers.
package activities

import "time"

// Kind is the activity type.
type Kind string

const (
	KindCall     Kind = "call"
	KindMeeting  Kind = "meeting"
	KindTask     Kind = "task"
	KindFollowUp Kind = "follow_up"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindCall, KindMeeting, KindTask, KindFollowUp:
		return true
	}
	return false
}

// Status is the activity completion state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// Activity is a scheduled touchpoint, optionally linked to a lead or a
// customer.
type Activity struct {
	ID         int64      `json:"id" db:"id"`
	Kind       Kind       `json:"type" db:"kind"`
	Subject    string     `json:"subject" db:"subject"`
	Notes      *string    `json:"notes,omitempty" db:"notes"`
	DueAt      *time.Time `json:"due_at,omitempty" db:"due_at"`
	Status     Status     `json:"status" db:"status"`
	LeadID     *int64     `json:"lead_id,omitempty" db:"lead_id"`
	CustomerID *int64     `json:"customer_id,omitempty" db:"customer_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}
