package service

import (
	"github.com/anavarro/melodia/internal/config"
	"github.com/anavarro/melodia/internal/repository"
)

type Services struct {
	Auth     *AuthService
	Playlist *PlaylistService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth:     NewAuthService(repos.User),
		Playlist: NewPlaylistService(repos.Playlist),
	}
}
