package domain

import (
	"time"

	"github.com/google/uuid"
)

type Playlist struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Name      string    `json:"nombre" gorm:"not null"`
	OwnerID   uuid.UUID `json:"ownerId" gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `json:"createdAt"`

	// Memberships ride along so AutoMigrate creates the FK with ON DELETE
	// CASCADE; deleting a playlist removes its songs at the database level.
	Songs []PlaylistSong `json:"-" gorm:"foreignKey:PlaylistID;constraint:OnDelete:CASCADE"`
}

// PlaylistSong is a membership row. The composite primary key makes
// (playlist, path) unique, which is what arbitrates racing adds.
type PlaylistSong struct {
	PlaylistID uuid.UUID `json:"playlistId" gorm:"type:uuid;primaryKey"`
	SongPath   string    `json:"songPath" gorm:"primaryKey"`
	AddedAt    time.Time `json:"addedAt"`
}
