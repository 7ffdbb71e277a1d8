package user

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CampusQuest_Go/internal/catalog"
	"github.com/osse101/CampusQuest_Go/internal/database/memory"
	"github.com/osse101/CampusQuest_Go/internal/domain"
)

func TestRegister_CreatesPlayer(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store, catalog.Default())

	// ACT
	profile, err := svc.Register(ctx, RegisterInput{ID: "p1", DisplayName: "  Ana Cruz ", Email: "ana@campus.edu", Guild: "ccsict"})

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, "Ana Cruz", profile.DisplayName)
	assert.Equal(t, "CCSICT", profile.Guild)
	assert.Equal(t, domain.RolePlayer, profile.Role)
	assert.Equal(t, 1, profile.Level)
	assert.Zero(t, profile.XP)

	stored, err := svc.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "ana@campus.edu", stored.Email)
}

func TestRegister_KeepsProgressOnReRegister(t *testing.T) {
	// ARRANGE
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store, catalog.Default())
	_, err := svc.Register(ctx, RegisterInput{ID: "p1", DisplayName: "Ana", Guild: "CAS"})
	require.NoError(t, err)

	tx, err := store.BeginProgressTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.UpdateProfile(ctx, "p1", domain.ProfileUpdate{XP: 1500, Gold: 80, Level: 2, ActivityStreak: 2}))
	require.NoError(t, tx.Commit(ctx))

	// ACT
	profile, err := svc.Register(ctx, RegisterInput{ID: "p1", DisplayName: "Ana C.", Guild: "COE", Role: domain.RoleQuestGiver})

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, "Ana C.", profile.DisplayName)
	assert.Equal(t, "COE", profile.Guild)
	assert.Equal(t, domain.RoleQuestGiver, profile.Role)
	assert.Equal(t, int64(1500), profile.XP)
	assert.Equal(t, int64(80), profile.Gold)
	assert.Equal(t, 2, profile.ActivityStreak)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{"missing id", RegisterInput{DisplayName: "A", Guild: "CAS"}, domain.ErrInvalidInput},
		{"blank name", RegisterInput{ID: "p", DisplayName: "   ", Guild: "CAS"}, domain.ErrInvalidInput},
		{"long name", RegisterInput{ID: "p", DisplayName: strings.Repeat("x", MaxDisplayNameLength+1), Guild: "CAS"}, domain.ErrInvalidInput},
		{"unknown guild", RegisterInput{ID: "p", DisplayName: "A", Guild: "XYZ"}, domain.ErrUnknownGuild},
		{"unknown role", RegisterInput{ID: "p", DisplayName: "A", Guild: "CAS", Role: "dean"}, domain.ErrUnknownRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(memory.NewStore(), catalog.Default())

			_, err := svc.Register(context.Background(), tt.input)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
		})
	}
}

func TestGet_UnknownParticipant(t *testing.T) {
	_, err := NewService(memory.NewStore(), catalog.Default()).Get(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
