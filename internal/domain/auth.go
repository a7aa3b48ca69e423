package domain

import "time"

// SubjectType differentiates token subjects. The panel currently issues
// tokens for the administrator only, but the claim is kept explicit so a
// future agent-facing login does not change the wire format.
type SubjectType string

const (
	SubjectTypeAdmin SubjectType = "ADMIN"
)

// Session captures metadata about an issued admin token.
type Session struct {
	TokenID   string
	Email     string
	Subject   SubjectType
	IssuedAt  time.Time
	ExpiresAt time.Time
}
