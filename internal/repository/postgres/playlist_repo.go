package postgres

import (
	"context"
	"time"

	"github.com/anavarro/melodia/internal/domain"
	"github.com/anavarro/melodia/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type playlistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) *playlistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) Create(ctx context.Context, playlist *domain.Playlist) error {
	return r.db.WithContext(ctx).Create(playlist).Error
}

// GetByIDAndOwner is the single atomic ownership lookup. There is no
// fetch-then-compare step, so "not yours" and "does not exist" are the same
// gorm.ErrRecordNotFound.
func (r *playlistRepository) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Playlist, error) {
	var playlist domain.Playlist
	err := r.db.WithContext(ctx).
		First(&playlist, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

func (r *playlistRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*repository.PlaylistWithCount, error) {
	var rows []*repository.PlaylistWithCount
	err := r.db.WithContext(ctx).
		Model(&domain.Playlist{}).
		Select("playlists.*, count(playlist_songs.song_path) AS song_count").
		Joins("LEFT JOIN playlist_songs ON playlist_songs.playlist_id = playlists.id").
		Where("playlists.owner_id = ?", ownerID).
		Group("playlists.id").
		Order("playlists.created_at, playlists.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *playlistRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Delete(&domain.Playlist{}, "id = ? AND owner_id = ?", id, ownerID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	// Memberships go with the playlist via the FK cascade.
	return nil
}

// AddSong is insert-or-ignore: the composite key on (playlist_id, song_path)
// absorbs duplicates, including racing inserts of the same pair.
func (r *playlistRepository) AddSong(ctx context.Context, playlistID uuid.UUID, songPath string) error {
	song := domain.PlaylistSong{
		PlaylistID: playlistID,
		SongPath:   songPath,
		AddedAt:    time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&song).Error
}

func (r *playlistRepository) ListSongs(ctx context.Context, playlistID uuid.UUID) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).
		Model(&domain.PlaylistSong{}).
		Where("playlist_id = ?", playlistID).
		Order("added_at, song_path").
		Pluck("song_path", &paths).Error
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// RemoveSong deletes at most one membership row and succeeds whether or not
// the row existed.
func (r *playlistRepository) RemoveSong(ctx context.Context, playlistID uuid.UUID, songPath string) error {
	return r.db.WithContext(ctx).
		Delete(&domain.PlaylistSong{}, "playlist_id = ? AND song_path = ?", playlistID, songPath).Error
}
