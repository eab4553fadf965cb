package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fits-community/fits-tracker/internal/models"
)

// PlayerRepository handles player-identity database operations.
type PlayerRepository struct {
	db *DB
}

// NewPlayerRepository creates a new player repository.
func NewPlayerRepository(db *DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// GetByPlayFabID retrieves a player by PlayFab ID.
func (r *PlayerRepository) GetByPlayFabID(playfabID string) (*models.Player, error) {
	var player models.Player
	if err := r.db.Where("playfab_id = ?", playfabID).First(&player).Error; err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", playfabID, err)
	}
	return &player, nil
}

// Upsert merges an observation into the stored player identity. On first
// sight both first_seen and last_seen are set to the observation date; after
// that first_seen is never touched and last_seen only moves forward.
func (r *PlayerRepository) Upsert(player *models.Player, seen time.Time) error {
	var existing models.Player
	err := r.db.Where("playfab_id = ?", player.PlayFabID).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		player.FirstSeen = seen
		player.LastSeen = seen
		if err := r.db.Create(player).Error; err != nil {
			return fmt.Errorf("failed to create player %s: %w", player.PlayFabID, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up player %s: %w", player.PlayFabID, err)
	}

	existing.DisplayName = player.DisplayName
	existing.Platform = player.Platform
	existing.PlatformUserID = player.PlatformUserID
	if seen.After(existing.LastSeen) {
		existing.LastSeen = seen
	}

	if err := r.db.Save(&existing).Error; err != nil {
		return fmt.Errorf("failed to update player %s: %w", player.PlayFabID, err)
	}
	return nil
}

// Count returns the number of known players.
func (r *PlayerRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Player{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}
