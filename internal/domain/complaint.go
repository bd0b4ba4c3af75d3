package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "pending"
	ComplaintStatusInProgress ComplaintStatus = "in-progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusRejected   ComplaintStatus = "rejected"
)

// Valid reports whether the status is one of the four recognized values.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusInProgress, ComplaintStatusResolved, ComplaintStatusRejected:
		return true
	}
	return false
}

// ComplaintPriority enumerates urgency levels.
type ComplaintPriority string

const (
	ComplaintPriorityLow    ComplaintPriority = "low"
	ComplaintPriorityMedium ComplaintPriority = "medium"
	ComplaintPriorityHigh   ComplaintPriority = "high"
)

// Valid reports whether the priority is recognized.
func (p ComplaintPriority) Valid() bool {
	switch p {
	case ComplaintPriorityLow, ComplaintPriorityMedium, ComplaintPriorityHigh:
		return true
	}
	return false
}

// DefaultCategory is applied when a complaint omits its category.
const DefaultCategory = "electrical"

// Comment is an append-only note left by an electrician on a complaint.
type Comment struct {
	Text string    `json:"text"`
	By   string    `json:"by"`
	At   time.Time `json:"at"`
}

// Complaint is the unit of work shared by all three roles.
//
// Exactly one visibility channel is active at a time: either VisibleToAll is
// true and AssignedTo is nil (broadcast to every electrician), or VisibleToAll
// is false and AssignedTo optionally names one electrician (private claim).
type Complaint struct {
	ID           string
	Title        string
	Description  string
	Location     string
	Priority     ComplaintPriority
	Category     string
	Status       ComplaintStatus
	CreatedBy    AccountRef
	AssignedTo   *AccountRef
	VisibleToAll bool
	Images       []string
	Comments     []Comment
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
