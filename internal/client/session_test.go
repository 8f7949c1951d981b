package client

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildToken(t *testing.T, payload map[string]any) string {
	t.Helper()

	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	return base64.RawURLEncoding.EncodeToString(header) + "." +
		base64.RawURLEncoding.EncodeToString(body) + "." +
		"fakesignature"
}

func TestSessionRestore(t *testing.T) {
	token := buildToken(t, map[string]any{
		"sub":         "uid-1",
		"name":        "user@example.com",
		"email":       "user@example.com",
		"displayName": "User",
		"role":        []string{"Premium"},
	})

	store := NewMemoryStore()
	require.NoError(t, store.Set(token))

	session := NewSession(store)
	assert.True(t, session.Restore())

	state := session.State()
	assert.True(t, state.Authenticated)
	assert.Equal(t, "user@example.com", state.Principal.Name)
	assert.Equal(t, "uid-1", state.Principal.UID)
	assert.True(t, state.Principal.HasRole("Premium"))
}

func TestSessionRestore_EmptyStore(t *testing.T) {
	session := NewSession(NewMemoryStore())
	assert.False(t, session.Restore())
	assert.False(t, session.State().Authenticated)
}

func TestSessionRestore_GarbageCleared(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not a jwt at all", "garbage"},
		{"two segments", "aaaaaaa.bbbbbbb"},
		{"four segments", "aaaaaaa.bbbbbbb.ccccccc.ddddddd"},
		{"short header segment", "aa.bbbbbbb.ccc"},
		{"short payload segment", "aaaaaaa.bb.ccc"},
		{"valid shape but broken payload", "aaaaaaa.!!!!!!!.ccc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			require.NoError(t, store.Set(tt.token))

			session := NewSession(store)
			assert.False(t, session.Restore())
			assert.False(t, session.State().Authenticated)

			// Мусор вычищается, чтобы не мешал следующим запускам.
			left, err := store.Get()
			require.NoError(t, err)
			assert.Empty(t, left)
		})
	}
}

func TestSessionSetToken_NotifiesSubscribers(t *testing.T) {
	token := buildToken(t, map[string]any{
		"sub":   "uid-1",
		"name":  "user@example.com",
		"email": "user@example.com",
	})

	session := NewSession(NewMemoryStore())

	var states []State
	session.Subscribe(func(s State) {
		states = append(states, s)
	})

	require.NoError(t, session.SetToken(token))
	session.Clear()

	require.Len(t, states, 2)
	assert.True(t, states[0].Authenticated)
	assert.False(t, states[1].Authenticated)
	assert.Empty(t, session.Token())
}

func TestSessionSubscriber_ReadsSessionBack(t *testing.T) {
	token := buildToken(t, map[string]any{
		"sub":   "uid-1",
		"name":  "user@example.com",
		"email": "user@example.com",
	})

	session := NewSession(NewMemoryStore())

	// Обработчик читает сессию обратно; вызов не должен зависнуть.
	var seen []State
	session.Subscribe(func(State) {
		seen = append(seen, session.State())
		_ = session.Token()
	})

	require.NoError(t, session.SetToken(token))
	session.Clear()

	require.Len(t, seen, 2)
	assert.True(t, seen[0].Authenticated)
	assert.Equal(t, "uid-1", seen[0].Principal.UID)
	assert.False(t, seen[1].Authenticated)
}

func TestSessionSetToken_RejectsGarbage(t *testing.T) {
	session := NewSession(NewMemoryStore())
	assert.Error(t, session.SetToken("garbage"))
	assert.False(t, session.State().Authenticated)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := t.TempDir() + "/storage.json"
	store := NewFileStore(path)

	token, err := store.Get()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Set("sometoken"))

	token, err = store.Get()
	require.NoError(t, err)
	assert.Equal(t, "sometoken", token)

	require.NoError(t, store.Remove())

	token, err = store.Get()
	require.NoError(t, err)
	assert.Empty(t, token)
}
