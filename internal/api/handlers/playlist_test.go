package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/anavarro/melodia/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type playlistEnvelope struct {
	Playlist struct {
		ID        string `json:"id"`
		Nombre    string `json:"nombre"`
		SongCount int64  `json:"songCount"`
	} `json:"playlist"`
}

type playlistsEnvelope struct {
	Playlists []struct {
		ID        string `json:"id"`
		Nombre    string `json:"nombre"`
		SongCount int64  `json:"songCount"`
	} `json:"playlists"`
}

type songsEnvelope struct {
	Songs []string `json:"songs"`
}

func doJSON(t *testing.T, client *http.Client, method, rawURL string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequest(method, rawURL, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func createPlaylist(t *testing.T, ts *testutil.TestServer, client *http.Client, nombre string) string {
	t.Helper()

	resp := doJSON(t, client, http.MethodPost, ts.APIURL("/playlists"), map[string]string{"nombre": nombre})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var envelope playlistEnvelope
	testutil.AssertJSONResponse(t, resp, &envelope)
	return envelope.Playlist.ID
}

func TestPlaylistHandler_RequiresSession(t *testing.T) {
	ts := testutil.NewTestServer(t)

	requests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "list playlists", method: http.MethodGet, path: "/playlists"},
		{name: "create playlist", method: http.MethodPost, path: "/playlists"},
		{name: "add song", method: http.MethodPost, path: "/playlists/" + uuid.NewString() + "/songs"},
		{name: "list songs", method: http.MethodGet, path: "/playlists/" + uuid.NewString() + "/songs"},
		{name: "remove song", method: http.MethodDelete, path: "/playlists/" + uuid.NewString() + "/songs/a.mp3"},
		{name: "delete playlist", method: http.MethodDelete, path: "/playlists/" + uuid.NewString()},
	}

	for _, tt := range requests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.DefaultClient, tt.method, ts.APIURL(tt.path), nil)
			defer resp.Body.Close()

			testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "unauthorized")
		})
	}
}

func TestPlaylistHandler_EndToEnd(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, client := testutil.NewUserBuilder().
		WithDisplayName("Ana").
		WithEmail("ana@x.com").
		WithPassword("pw1").
		BuildAndLogin(t, ts)

	// Create
	resp := doJSON(t, client, http.MethodPost, ts.APIURL("/playlists"), map[string]string{"nombre": "Road Trip"})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	var created playlistEnvelope
	testutil.AssertJSONResponse(t, resp, &created)
	resp.Body.Close()
	assert.Equal(t, "Road Trip", created.Playlist.Nombre)
	assert.Equal(t, int64(0), created.Playlist.SongCount)
	playlistID := created.Playlist.ID

	// Add a song
	resp = doJSON(t, client, http.MethodPost, ts.APIURL("/playlists/"+playlistID+"/songs"),
		map[string]string{"songPath": "/musica/a.mp3"})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	resp.Body.Close()

	// Listing songs shows it
	resp = doJSON(t, client, http.MethodGet, ts.APIURL("/playlists/"+playlistID+"/songs"), nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var songs songsEnvelope
	testutil.AssertJSONResponse(t, resp, &songs)
	resp.Body.Close()
	assert.Equal(t, []string{"/musica/a.mp3"}, songs.Songs)

	// The playlist listing reflects the derived count
	resp = doJSON(t, client, http.MethodGet, ts.APIURL("/playlists"), nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var listing playlistsEnvelope
	testutil.AssertJSONResponse(t, resp, &listing)
	resp.Body.Close()
	require.Len(t, listing.Playlists, 1)
	assert.Equal(t, playlistID, listing.Playlists[0].ID)
	assert.Equal(t, int64(1), listing.Playlists[0].SongCount)

	// Adding the same path again is a no-op
	resp = doJSON(t, client, http.MethodPost, ts.APIURL("/playlists/"+playlistID+"/songs"),
		map[string]string{"songPath": "/musica/a.mp3"})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodGet, ts.APIURL("/playlists/"+playlistID+"/songs"), nil)
	testutil.AssertJSONResponse(t, resp, &songs)
	resp.Body.Close()
	assert.Len(t, songs.Songs, 1)

	// Remove it; the path travels percent-encoded in the route tail
	resp = doJSON(t, client, http.MethodDelete,
		ts.APIURL("/playlists/"+playlistID+"/songs/"+url.PathEscape("/musica/a.mp3")), nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodGet, ts.APIURL("/playlists/"+playlistID+"/songs"), nil)
	testutil.AssertJSONResponse(t, resp, &songs)
	resp.Body.Close()
	assert.Empty(t, songs.Songs)

	// Removing again still succeeds
	resp = doJSON(t, client, http.MethodDelete,
		ts.APIURL("/playlists/"+playlistID+"/songs/"+url.PathEscape("/musica/a.mp3")), nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	resp.Body.Close()
}

func TestPlaylistHandler_OwnershipIsInvisible(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, ownerClient := testutil.NewUserBuilder().WithEmail("owner@x.com").BuildAndLogin(t, ts)
	_, strangerClient := testutil.NewUserBuilder().WithEmail("stranger@x.com").BuildAndLogin(t, ts)

	playlistID := createPlaylist(t, ts, ownerClient, "Private Mix")
	missingID := uuid.NewString()

	readBody := func(t *testing.T, resp *http.Response) string {
		t.Helper()
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(body)
	}

	operations := []struct {
		name   string
		method string
		path   func(id string) string
		body   interface{}
	}{
		{
			name:   "add song",
			method: http.MethodPost,
			path:   func(id string) string { return "/playlists/" + id + "/songs" },
			body:   map[string]string{"songPath": "/musica/a.mp3"},
		},
		{
			name:   "list songs",
			method: http.MethodGet,
			path:   func(id string) string { return "/playlists/" + id + "/songs" },
		},
		{
			name:   "remove song",
			method: http.MethodDelete,
			path:   func(id string) string { return "/playlists/" + id + "/songs/" + url.PathEscape("/musica/a.mp3") },
		},
		{
			name:   "delete playlist",
			method: http.MethodDelete,
			path:   func(id string) string { return "/playlists/" + id },
		},
	}

	for _, op := range operations {
		t.Run(op.name, func(t *testing.T) {
			foreign := doJSON(t, strangerClient, op.method, ts.APIURL(op.path(playlistID)), op.body)
			missing := doJSON(t, strangerClient, op.method, ts.APIURL(op.path(missingID)), op.body)

			assert.Equal(t, http.StatusNotFound, foreign.StatusCode)
			assert.Equal(t, http.StatusNotFound, missing.StatusCode)
			// Byte-identical responses: a non-owner cannot learn whether
			// the playlist exists.
			assert.Equal(t, readBody(t, missing), readBody(t, foreign))
		})
	}

	// None of the probing touched the playlist
	resp := doJSON(t, ownerClient, http.MethodGet, ts.APIURL("/playlists/"+playlistID+"/songs"), nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var songs songsEnvelope
	testutil.AssertJSONResponse(t, resp, &songs)
	resp.Body.Close()
	assert.Empty(t, songs.Songs)
}

func TestPlaylistHandler_Validation(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, client := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	playlistID := createPlaylist(t, ts, client, "Mix")

	t.Run("create without nombre", func(t *testing.T) {
		resp := doJSON(t, client, http.MethodPost, ts.APIURL("/playlists"), map[string]string{})
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	})

	t.Run("add song without songPath", func(t *testing.T) {
		resp := doJSON(t, client, http.MethodPost, ts.APIURL("/playlists/"+playlistID+"/songs"), map[string]string{})
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	})

	t.Run("malformed playlist id reads as not found", func(t *testing.T) {
		resp := doJSON(t, client, http.MethodGet, ts.APIURL("/playlists/not-a-uuid/songs"), nil)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	})
}

func TestPlaylistHandler_Delete(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, client := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	playlistID := createPlaylist(t, ts, client, "Short Lived")

	resp := doJSON(t, client, http.MethodPost, ts.APIURL("/playlists/"+playlistID+"/songs"),
		map[string]string{"songPath": "/musica/a.mp3"})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodDelete, ts.APIURL("/playlists/"+playlistID), nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	resp.Body.Close()

	// Gone, along with its memberships
	resp = doJSON(t, client, http.MethodGet, ts.APIURL("/playlists/"+playlistID+"/songs"), nil)
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodGet, ts.APIURL("/playlists"), nil)
	var listing playlistsEnvelope
	testutil.AssertJSONResponse(t, resp, &listing)
	resp.Body.Close()
	assert.Empty(t, listing.Playlists)
}
