package domain

import "time"

type PluginStatus string

const (
	PluginStatusEnabled  PluginStatus = "ENABLED"
	PluginStatusDisabled PluginStatus = "DISABLED"
	PluginStatusRemoved  PluginStatus = "REMOVED"
)

type PluginPoint struct {
	ID         int32        `json:"id" db:"id"`
	Label      string       `json:"label" db:"label"`
	App        string       `json:"app" db:"app"`
	Index      int32        `json:"index" db:"idx"`
	Registered bool         `json:"registered" db:"registered"`
	Status     PluginStatus `json:"status" db:"status"`
	CreatedOn  time.Time    `json:"created_on" db:"created_on"`
	UpdatedOn  time.Time    `json:"updated_on" db:"updated_on"`
}

type Plugin struct {
	ID         int32        `json:"id" db:"id"`
	PointID    int32        `json:"point_id" db:"point_id"`
	PointLabel string       `json:"point_label" db:"point_label"`
	Label      string       `json:"label" db:"label"`
	App        string       `json:"app" db:"app"`
	Template   string       `json:"template" db:"template"`
	Index      int32        `json:"index" db:"idx"`
	Required   bool         `json:"required" db:"required"`
	Registered bool         `json:"registered" db:"registered"`
	Status     PluginStatus `json:"status" db:"status"`
	CreatedOn  time.Time    `json:"created_on" db:"created_on"`
	UpdatedOn  time.Time    `json:"updated_on" db:"updated_on"`
}

type UserPluginPreference struct {
	UserID   int32 `json:"user_id" db:"user_id"`
	PluginID int32 `json:"plugin_id" db:"plugin_id"`
	Visible  bool  `json:"visible" db:"visible"`
	Index    int32 `json:"index" db:"idx"`
}
