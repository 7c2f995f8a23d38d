package domain

import "time"

// ProfileAudit records one successful profile read.
type ProfileAudit struct {
	UserID      string
	RequestedAt time.Time
}
