package domain

import "fmt"

// AgentType identifies one tier of the five-level agent hierarchy.
type AgentType string

const (
	AgentTypeAdmin          AgentType = "admin"
	AgentTypeSeniorSubAdmin AgentType = "senior-sub-admin"
	AgentTypeSubAdmin       AgentType = "sub-admin"
	AgentTypeSuperAgent     AgentType = "super-agent"
	AgentTypeMasterAgent    AgentType = "master-agent"
)

// TypeInfo describes a hierarchy tier: its display title, the tier directly
// above it (empty for the top tier), its numeric level and the prefix used
// when composing agent ids.
type TypeInfo struct {
	Title     string
	AddTitle  string
	Upline    AgentType
	Level     int
	IDPrefix  string
	HasUpline bool
}

var hierarchy = map[AgentType]TypeInfo{
	AgentTypeAdmin: {
		Title:    "Admin",
		AddTitle: "Add Admin",
		Level:    1,
		IDPrefix: "ADMIN",
	},
	AgentTypeSeniorSubAdmin: {
		Title:     "Senior Sub Admin",
		AddTitle:  "Add Senior Sub Admin",
		Upline:    AgentTypeAdmin,
		Level:     2,
		IDPrefix:  "SS-ADMIN",
		HasUpline: true,
	},
	AgentTypeSubAdmin: {
		Title:     "Sub Admin",
		AddTitle:  "Add Sub Admin",
		Upline:    AgentTypeSeniorSubAdmin,
		Level:     3,
		IDPrefix:  "SUB-ADMIN",
		HasUpline: true,
	},
	AgentTypeSuperAgent: {
		Title:     "Super Agent",
		AddTitle:  "Add Super Agent",
		Upline:    AgentTypeSubAdmin,
		Level:     4,
		IDPrefix:  "SUPER",
		HasUpline: true,
	},
	AgentTypeMasterAgent: {
		Title:     "Master Agent",
		AddTitle:  "Add Master Agent",
		Upline:    AgentTypeSuperAgent,
		Level:     5,
		IDPrefix:  "MASTER",
		HasUpline: true,
	},
}

// AllAgentTypes returns every agent type ordered from level 1 to level 5.
func AllAgentTypes() []AgentType {
	return []AgentType{
		AgentTypeAdmin,
		AgentTypeSeniorSubAdmin,
		AgentTypeSubAdmin,
		AgentTypeSuperAgent,
		AgentTypeMasterAgent,
	}
}

// ParseAgentType validates a raw type string.
func ParseAgentType(raw string) (AgentType, error) {
	t := AgentType(raw)
	if _, ok := hierarchy[t]; !ok {
		return "", fmt.Errorf("unknown agent type %q", raw)
	}
	return t, nil
}

// InfoOf returns the hierarchy entry for a type.
func InfoOf(t AgentType) (TypeInfo, bool) {
	info, ok := hierarchy[t]
	return info, ok
}

// UplineTypeOf returns the type directly above t, and whether one exists.
func UplineTypeOf(t AgentType) (AgentType, bool) {
	info, ok := hierarchy[t]
	if !ok || !info.HasUpline {
		return "", false
	}
	return info.Upline, true
}

// RequiresUpline reports whether agents of type t must reference an upline.
func RequiresUpline(t AgentType) bool {
	info, ok := hierarchy[t]
	return ok && info.HasUpline
}

// IsValidUpline reports whether candidate is the configured upline type for
// declared.
func IsValidUpline(candidate, declared AgentType) bool {
	upline, ok := UplineTypeOf(declared)
	return ok && candidate == upline
}

// TitleOf resolves the display title for a type. Titles are derived here at
// read time and never persisted.
func TitleOf(t AgentType) string {
	return hierarchy[t].Title
}

// LevelOf returns the numeric rank of a type, 1 (top) through 5 (bottom).
func LevelOf(t AgentType) int {
	return hierarchy[t].Level
}

// IDPrefixOf returns the per-type segment used in generated agent ids.
func IDPrefixOf(t AgentType) string {
	return hierarchy[t].IDPrefix
}
