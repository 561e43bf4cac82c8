package repository

import (
	"context"

	"github.com/anavarro/melodia/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// PlaylistWithCount pairs a playlist with its derived song count. The count
// is computed at read time, never stored.
type PlaylistWithCount struct {
	Playlist  domain.Playlist `gorm:"embedded"`
	SongCount int64
}

// PlaylistRepository resolves playlists jointly on (id, owner): a playlist
// that exists under a different owner is indistinguishable from one that
// does not exist.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *domain.Playlist) error
	GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Playlist, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*PlaylistWithCount, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	AddSong(ctx context.Context, playlistID uuid.UUID, songPath string) error
	ListSongs(ctx context.Context, playlistID uuid.UUID) ([]string, error)
	RemoveSong(ctx context.Context, playlistID uuid.UUID, songPath string) error
}

type Repositories struct {
	User     UserRepository
	Playlist PlaylistRepository
}
