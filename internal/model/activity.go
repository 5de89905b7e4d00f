package model

import "time"

// ActivityAction tags an activity log entry.
type ActivityAction string

const (
	ActionLogin          ActivityAction = "LOGIN"
	ActionPasswordChange ActivityAction = "PASSWORD_CHANGE"
	ActionAdminCreate    ActivityAction = "ADMIN_CREATE"
	ActionAdminUpdate    ActivityAction = "ADMIN_UPDATE"
	ActionAdminDelete    ActivityAction = "ADMIN_DELETE"
	ActionNewsCreate     ActivityAction = "NEWS_CREATE"
	ActionNewsUpdate     ActivityAction = "NEWS_UPDATE"
	ActionNewsDelete     ActivityAction = "NEWS_DELETE"
	ActionEventCreate    ActivityAction = "EVENT_CREATE"
	ActionEventUpdate    ActivityAction = "EVENT_UPDATE"
	ActionEventDelete    ActivityAction = "EVENT_DELETE"
	ActionCategoryCreate ActivityAction = "CATEGORY_CREATE"
	ActionCategoryUpdate ActivityAction = "CATEGORY_UPDATE"
	ActionCategoryDelete ActivityAction = "CATEGORY_DELETE"
	ActionProgramCreate  ActivityAction = "PROGRAM_CREATE"
	ActionProgramUpdate  ActivityAction = "PROGRAM_UPDATE"
	ActionProgramDelete  ActivityAction = "PROGRAM_DELETE"
	ActionUpdateCreate   ActivityAction = "UPDATE_CREATE"
	ActionUpdateUpdate   ActivityAction = "UPDATE_UPDATE"
	ActionUpdateDelete   ActivityAction = "UPDATE_DELETE"
	ActionCourseCreate   ActivityAction = "LVA_CREATE"
	ActionCourseUpdate   ActivityAction = "LVA_UPDATE"
	ActionCourseDelete   ActivityAction = "LVA_DELETE"
	ActionCourseImport   ActivityAction = "LVA_IMPORT"
	ActionSettingsUpdate ActivityAction = "SETTINGS_UPDATE"
	ActionCodeCreate     ActivityAction = "CODE_CREATE"
	ActionCodeUpdate     ActivityAction = "CODE_UPDATE"
	ActionCodeDelete     ActivityAction = "CODE_DELETE"
)

// ActivityEntry is an append-only audit record. ActorName is captured at
// write time; OperatorID is cleared when the operator is deleted.
type ActivityEntry struct {
	ID          int            `json:"id"`
	OperatorID  *int           `json:"operator_id"`
	Action      ActivityAction `json:"action"`
	Description string         `json:"description"`
	TargetType  *string        `json:"target_type"`
	TargetID    *int           `json:"target_id"`
	ActorName   string         `json:"admin_name"`
	CreatedAt   time.Time      `json:"created_at"`
}
