package models

// ModerationStatus is the lifecycle state shared by courses and reviews.
// PENDING entries are invisible to the public site until an admin approves
// them; REJECTED is terminal.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "PENDING"
	StatusApproved ModerationStatus = "APPROVED"
	StatusRejected ModerationStatus = "REJECTED"
)

func (s ModerationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
