package service

import (
	"context"
	"errors"
	"time"

	"github.com/anavarro/melodia/internal/domain"
	"github.com/anavarro/melodia/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlaylistService struct {
	playlistRepo repository.PlaylistRepository
}

func NewPlaylistService(playlistRepo repository.PlaylistRepository) *PlaylistService {
	return &PlaylistService{playlistRepo: playlistRepo}
}

func (s *PlaylistService) Create(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Playlist, error) {
	playlist := &domain.Playlist{
		ID:        uuid.New(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *PlaylistService) List(ctx context.Context, ownerID uuid.UUID) ([]*repository.PlaylistWithCount, error) {
	return s.playlistRepo.ListByOwner(ctx, ownerID)
}

func (s *PlaylistService) Delete(ctx context.Context, ownerID, playlistID uuid.UUID) error {
	err := s.playlistRepo.Delete(ctx, playlistID, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrPlaylistNotFound
	}
	return err
}

// resolve runs the ownership-scoped lookup every song operation starts with.
func (s *PlaylistService) resolve(ctx context.Context, ownerID, playlistID uuid.UUID) error {
	_, err := s.playlistRepo.GetByIDAndOwner(ctx, playlistID, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrPlaylistNotFound
	}
	return err
}

func (s *PlaylistService) AddSong(ctx context.Context, ownerID, playlistID uuid.UUID, songPath string) error {
	if err := s.resolve(ctx, ownerID, playlistID); err != nil {
		return err
	}
	return s.playlistRepo.AddSong(ctx, playlistID, songPath)
}

func (s *PlaylistService) ListSongs(ctx context.Context, ownerID, playlistID uuid.UUID) ([]string, error) {
	if err := s.resolve(ctx, ownerID, playlistID); err != nil {
		return nil, err
	}
	return s.playlistRepo.ListSongs(ctx, playlistID)
}

func (s *PlaylistService) RemoveSong(ctx context.Context, ownerID, playlistID uuid.UUID, songPath string) error {
	if err := s.resolve(ctx, ownerID, playlistID); err != nil {
		return err
	}
	return s.playlistRepo.RemoveSong(ctx, playlistID, songPath)
}
