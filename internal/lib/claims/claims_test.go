package claims

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityarana14/makris-portfolio/internal/models"
)

func TestFromUser_FallbackChains(t *testing.T) {
	tests := []struct {
		name        string
		user        models.User
		wantName    string
		wantDisplay string
	}{
		{
			name: "username present",
			user: models.User{
				UID:         "uid-1",
				Email:       "a@x.com",
				Username:    "alice",
				DisplayName: "Alice",
			},
			wantName:    "alice",
			wantDisplay: "Alice",
		},
		{
			name: "fallback to email",
			user: models.User{
				UID:   "uid-1",
				Email: "a@x.com",
			},
			wantName:    "a@x.com",
			wantDisplay: "a@x.com",
		},
		{
			name: "fallback to uid",
			user: models.User{
				UID: "uid-1",
			},
			wantName:    "uid-1",
			wantDisplay: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := FromUser(tt.user, nil)
			assert.Equal(t, tt.user.UID, cs.First(KeySubject))
			assert.Equal(t, tt.wantName, cs.First(KeyName))
			assert.Equal(t, tt.wantDisplay, cs.First(KeyDisplayName))
		})
	}
}

func TestFromUser_PremiumConvenienceClaim(t *testing.T) {
	user := models.User{UID: "uid-1", Email: "a@x.com"}

	tests := []struct {
		name        string
		roles       []string
		wantPremium string
	}{
		{
			name:        "no roles",
			roles:       nil,
			wantPremium: "",
		},
		{
			name:        "premium role",
			roles:       []string{"Premium"},
			wantPremium: "true",
		},
		{
			name:        "premium role case-insensitive",
			roles:       []string{"premium"},
			wantPremium: "true",
		},
		{
			name:        "other roles only",
			roles:       []string{"Admin"},
			wantPremium: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := FromUser(user, tt.roles)
			assert.Equal(t, tt.wantPremium, cs.First(KeyHasPremium))
			assert.Equal(t, tt.roles, []string(cs[KeyRole]))
		})
	}
}

func TestToPrincipal_RoundTrip(t *testing.T) {
	user := models.User{
		UID:         "uid-7",
		Email:       "b@x.com",
		Username:    "bob",
		DisplayName: "Bob",
	}
	roles := []string{"Admin", "Premium"}

	p := ToPrincipal(FromUser(user, roles))

	assert.Equal(t, user.UID, p.UID)
	assert.Equal(t, user.Email, p.Email)
	assert.Equal(t, "bob", p.Name)
	assert.Equal(t, "Bob", p.DisplayName)
	assert.Equal(t, roles, p.Roles)
	assert.Equal(t, "true", p.ExtraValue(KeyHasPremium))
}

func TestToPrincipal_PreservesUnknownClaims(t *testing.T) {
	cs := Set{
		KeySubject: {"uid-1"},
		"tenant":   {"acme"},
		"scopes":   {"read", "write"},
	}

	p := ToPrincipal(cs)

	assert.Equal(t, "uid-1", p.UID)
	assert.Equal(t, []string{"acme"}, p.Extra["tenant"])
	assert.Equal(t, []string{"read", "write"}, p.Extra["scopes"])
}

func TestFromWire_RoleScalarAndArray(t *testing.T) {
	tests := []struct {
		name      string
		wire      map[string]any
		wantRoles []string
	}{
		{
			name:      "scalar role becomes single entry",
			wire:      map[string]any{KeyRole: "Premium"},
			wantRoles: []string{"Premium"},
		},
		{
			name:      "array role expands to multiple entries",
			wire:      map[string]any{KeyRole: []any{"Admin", "Premium"}},
			wantRoles: []string{"Admin", "Premium"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := FromWire(tt.wire)
			assert.Equal(t, tt.wantRoles, []string(cs[KeyRole]))
		})
	}
}

func TestWire_RoundTrip(t *testing.T) {
	cs := Set{
		KeySubject: {"uid-1"},
		KeyRole:    {"Admin", "Premium"},
		KeyEmail:   {"a@x.com"},
	}

	got := FromWire(ToWire(cs))

	require.Equal(t, cs, got)
}
