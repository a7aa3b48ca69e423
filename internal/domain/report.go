package domain

import "time"

// Report is a write-once complaint filed against an agent. Agent and upline
// names are denormalized snapshots taken at submission time; rows are never
// updated or deleted through the public interface.
type Report struct {
	ID             int64
	AgentID        string
	AgentName      string
	UplineName     string
	WhatsappNumber string
	Reason         string
	Timestamp      time.Time
}
