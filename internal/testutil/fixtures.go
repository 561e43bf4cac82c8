package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/anavarro/melodia/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	displayName string
	email       string
	password    string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		displayName: fmt.Sprintf("testuser_%s", suffix),
		email:       fmt.Sprintf("testuser_%s@example.com", suffix),
		password:    "testpassword123",
	}
}

// WithDisplayName sets the display name
func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.displayName = name
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		DisplayName:  b.displayName,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// UserEnvelope matches the API {"user": ...} responses
type UserEnvelope struct {
	User struct {
		ID     string `json:"id"`
		Nombre string `json:"nombre"`
		Email  string `json:"email"`
	} `json:"user"`
}

// BuildAndLogin registers the user via the API, logs in, and returns the user
// plus a client whose jar carries the session cookie.
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, *http.Client) {
	t.Helper()

	registerBody, _ := json.Marshal(map[string]string{
		"nombre":   b.displayName,
		"email":    b.email,
		"password": b.password,
	})
	resp, err := http.Post(ts.APIURL("/register"), "application/json", bytes.NewBuffer(registerBody))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected register status code: %d", resp.StatusCode)
	}

	client := ts.NewClient(t)
	loginBody, _ := json.Marshal(map[string]string{
		"email":    b.email,
		"password": b.password,
	})
	loginResp, err := client.Post(ts.APIURL("/login"), "application/json", bytes.NewBuffer(loginBody))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer loginResp.Body.Close()
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", loginResp.StatusCode)
	}

	var envelope UserEnvelope
	if err := json.NewDecoder(loginResp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	userID, _ := uuid.Parse(envelope.User.ID)
	user := &domain.User{
		ID:          userID,
		DisplayName: envelope.User.Nombre,
		Email:       envelope.User.Email,
	}

	return user, client
}

// PlaylistBuilder creates test playlists with a builder pattern
type PlaylistBuilder struct {
	owner *domain.User
	name  string
	songs []string
}

// NewPlaylistBuilder creates a new PlaylistBuilder with default values
func NewPlaylistBuilder(owner *domain.User) *PlaylistBuilder {
	return &PlaylistBuilder{
		owner: owner,
		name:  fmt.Sprintf("playlist_%s", uuid.New().String()[:8]),
	}
}

// WithName sets the playlist name
func (b *PlaylistBuilder) WithName(name string) *PlaylistBuilder {
	b.name = name
	return b
}

// WithSongs adds song memberships
func (b *PlaylistBuilder) WithSongs(paths ...string) *PlaylistBuilder {
	b.songs = append(b.songs, paths...)
	return b
}

// Build creates the playlist and its songs in the database
func (b *PlaylistBuilder) Build(t *testing.T, db *gorm.DB) *domain.Playlist {
	t.Helper()

	playlist := &domain.Playlist{
		ID:        uuid.New(),
		Name:      b.name,
		OwnerID:   b.owner.ID,
		CreatedAt: time.Now(),
	}
	if err := db.Create(playlist).Error; err != nil {
		t.Fatalf("failed to create playlist: %v", err)
	}

	for _, path := range b.songs {
		song := &domain.PlaylistSong{
			PlaylistID: playlist.ID,
			SongPath:   path,
			AddedAt:    time.Now(),
		}
		if err := db.Create(song).Error; err != nil {
			t.Fatalf("failed to add song %q: %v", path, err)
		}
	}

	return playlist
}
