package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/anavarro/melodia/internal/api/middleware"
	"github.com/anavarro/melodia/internal/domain"
	"github.com/anavarro/melodia/internal/repository"
	"github.com/anavarro/melodia/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type PlaylistHandler struct {
	playlistService *service.PlaylistService
}

func NewPlaylistHandler(playlistService *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

type CreatePlaylistRequest struct {
	Nombre string `json:"nombre"`
}

type AddSongRequest struct {
	SongPath string `json:"songPath"`
}

type PlaylistResponse struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	SongCount int64  `json:"songCount"`
}

func playlistResponse(row *repository.PlaylistWithCount) PlaylistResponse {
	return PlaylistResponse{
		ID:        row.Playlist.ID.String(),
		Nombre:    row.Playlist.Name,
		SongCount: row.SongCount,
	}
}

func (h *PlaylistHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rows, err := h.playlistService.List(r.Context(), ident.UserID)
	if err != nil {
		log.Printf("ERROR [PlaylistHandler.List] %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	playlists := make([]PlaylistResponse, 0, len(rows))
	for _, row := range rows {
		playlists = append(playlists, playlistResponse(row))
	}

	respondJSON(w, http.StatusOK, map[string][]PlaylistResponse{"playlists": playlists})
}

func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreatePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Nombre == "" {
		respondError(w, http.StatusBadRequest, "nombre is required")
		return
	}

	playlist, err := h.playlistService.Create(r.Context(), ident.UserID, req.Nombre)
	if err != nil {
		log.Printf("ERROR [PlaylistHandler.Create] %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := PlaylistResponse{
		ID:        playlist.ID.String(),
		Nombre:    playlist.Name,
		SongCount: 0,
	}
	respondJSON(w, http.StatusCreated, map[string]PlaylistResponse{"playlist": resp})
}

func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	playlistID, ok := playlistIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	if err := h.playlistService.Delete(r.Context(), ident.UserID, playlistID); err != nil {
		h.respondPlaylistError(w, "Delete", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *PlaylistHandler) AddSong(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	playlistID, ok := playlistIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	var req AddSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SongPath == "" {
		respondError(w, http.StatusBadRequest, "songPath is required")
		return
	}

	if err := h.playlistService.AddSong(r.Context(), ident.UserID, playlistID, req.SongPath); err != nil {
		h.respondPlaylistError(w, "AddSong", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

func (h *PlaylistHandler) ListSongs(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	playlistID, ok := playlistIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	songs, err := h.playlistService.ListSongs(r.Context(), ident.UserID, playlistID)
	if err != nil {
		h.respondPlaylistError(w, "ListSongs", err)
		return
	}

	if songs == nil {
		songs = []string{}
	}
	respondJSON(w, http.StatusOK, map[string][]string{"songs": songs})
}

func (h *PlaylistHandler) RemoveSong(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	playlistID, ok := playlistIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	// The song path is the route tail, percent-encoded by the client so
	// slashes inside it survive routing.
	songPath := chi.URLParam(r, "*")
	if unescaped, err := url.PathUnescape(songPath); err == nil {
		songPath = unescaped
	}
	if songPath == "" {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	if err := h.playlistService.RemoveSong(r.Context(), ident.UserID, playlistID, songPath); err != nil {
		h.respondPlaylistError(w, "RemoveSong", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// playlistIDParam parses the {id} route segment. A malformed id gets the
// same 404 as an absent playlist, so probing reveals nothing.
func playlistIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (h *PlaylistHandler) respondPlaylistError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, domain.ErrPlaylistNotFound) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	log.Printf("ERROR [PlaylistHandler.%s] %v", op, err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}
