package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "plain", in: "alice", want: "alice"},
		{name: "trimmed", in: "  bob \n", want: "bob"},
		{name: "empty", in: "", wantErr: ErrUsernameEmpty},
		{name: "only spaces", in: "   ", wantErr: ErrUsernameEmpty},
		{name: "max length", in: strings.Repeat("x", MaxUsernameLen), want: strings.Repeat("x", MaxUsernameLen)},
		{name: "too long", in: strings.Repeat("x", MaxUsernameLen+1), wantErr: ErrUsernameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeUsername(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewGuest(t *testing.T) {
	u := NewGuest()
	require.NoError(t, u.ID.Validate())
	assert.Equal(t, "guest-"+string(u.ID)[:6], u.Username)

	other := NewGuest()
	assert.NotEqual(t, u.ID, other.ID)
}

func TestGuestNameShortID(t *testing.T) {
	assert.Equal(t, "guest-ab", GuestName("ab"))
}

func TestUserSetUsername(t *testing.T) {
	u := User{ID: "u1", Username: "carol"}
	require.NoError(t, u.SetUsername(" dave "))
	assert.Equal(t, "dave", u.Username)

	assert.ErrorIs(t, u.SetUsername(""), ErrUsernameEmpty)
	assert.Equal(t, "dave", u.Username)
}
