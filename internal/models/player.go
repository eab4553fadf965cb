package models

import (
	"time"
)

// Player represents a canonical player identity. PlayFabID is stable across
// all observations and is the only key ever used to reference a player.
type Player struct {
	PlayFabID      string    `gorm:"column:playfab_id;primaryKey;size:64" json:"playfab_id"`
	DisplayName    *string   `gorm:"size:255" json:"display_name"`
	Platform       *string   `gorm:"size:50" json:"platform"`
	PlatformUserID *string   `gorm:"column:platform_user_id;size:255" json:"platform_user_id"`
	FirstSeen      time.Time `gorm:"type:date;not null" json:"first_seen"`
	LastSeen       time.Time `gorm:"type:date;not null" json:"last_seen"`
}

// TableName specifies the table name for Player model.
func (Player) TableName() string {
	return "players"
}

// PlatformGOG is the canonical platform tag for GOG-linked accounts.
const PlatformGOG = "GOG"
