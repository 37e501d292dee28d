package domain

import "time"

type SafetyLevel int16

const (
	SafetyLevelSafe    SafetyLevel = 1
	SafetyLevelNotSure SafetyLevel = 2
	SafetyLevelNotSafe SafetyLevel = 3
)

type Photo struct {
	ID          int32       `json:"id"`
	MemberID    int32       `json:"member_id"`
	Title       string      `json:"title"`
	Caption     string      `json:"caption"`
	StorageKey  string      `json:"storage_key"`
	URL         string      `json:"url"`
	ContentType string      `json:"content_type"`
	FileSize    int64       `json:"file_size"`
	IsPublic    bool        `json:"is_public"`
	SafetyLevel SafetyLevel `json:"safety_level"`
	ViewCount   int32       `json:"view_count"`
	Tags        []string    `json:"tags"`
	CreatedOn   time.Time   `json:"created_on"`
}

type PhotoPool struct {
	PhotoID   int32     `json:"photo_id"`
	GroupType GroupType `json:"group_type"`
	GroupID   int32     `json:"group_id"`
	AddedOn   time.Time `json:"added_on"`
}
