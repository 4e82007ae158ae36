package snapshot

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	state := newTestState(t, testGuild())
	builder := NewBuilder(state, NewBannerCache(newFakeFetcher()))
	return NewServer(builder, 0)
}

func assertCorsHeaders(t *testing.T, header http.Header) {
	t.Helper()
	assert.Equal(t, "*", header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", header.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", header.Get("Access-Control-Allow-Headers"))
}

func TestGetSnapshot(t *testing.T) {

	server := newTestServer(t)
	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/snapshot", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assertCorsHeaders(t, recorder.Header())

	var snapshot Snapshot
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &snapshot))
	require.Len(t, snapshot.Guilds, 1)
	assert.Equal(t, "Alpha", snapshot.Guilds[0].Name)
	assert.NotEmpty(t, snapshot.GeneratedAt)
}

// Each GET reflects the live state; nothing is cached between requests
func TestGetSnapshotIsFreshPerRequest(t *testing.T) {

	state := newTestState(t, testGuild())
	builder := NewBuilder(state, NewBannerCache(newFakeFetcher()))
	server := NewServer(builder, 0)
	router := server.Router()

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/snapshot", nil))

	require.NoError(t, state.GuildAdd(&discordgo.Guild{ID: "g-beta", Name: "Beta"}))

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/snapshot", nil))

	var snapshot Snapshot
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &snapshot))
	assert.Len(t, snapshot.Guilds, 2)
}

func TestOptionsSnapshot(t *testing.T) {

	server := newTestServer(t)
	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodOptions, "/api/snapshot", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, recorder.Body.String())
	assertCorsHeaders(t, recorder.Header())
}

func TestHealth(t *testing.T) {

	server := newTestServer(t)
	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
}
