package postgresql_test

import (
	"context"
	"testing"

	"github.com/musicverse/musicverse-backend-go/internal/domain/notification"
	"github.com/musicverse/musicverse-backend-go/internal/domain/user"
	"github.com/musicverse/musicverse-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(setup.DB)

	created := createTestUser(t, setup.DB, "alice")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, user.RoleUser, created.Role)

	byEmail, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	usernameTaken, emailTaken, err := repo.ExistsByUsernameOrEmail(ctx, "Alice", "other@example.com")
	require.NoError(t, err)
	assert.True(t, usernameTaken)
	assert.False(t, emailTaken)

	name := "Alice A."
	updated, err := repo.UpdateProfile(ctx, created.ID, user.UpdateProfileRequest{Name: &name}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", updated.DisplayName())

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestFollowRepository_FollowGraph(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewFollowRepository(setup.DB)
	dir := postgresql.NewDirectory(setup.DB)

	artist := createTestUser(t, setup.DB, "artist")
	fan1 := createTestUser(t, setup.DB, "fan1")
	fan2 := createTestUser(t, setup.DB, "fan2")

	require.NoError(t, repo.Follow(ctx, fan1.ID, artist.ID))
	require.NoError(t, repo.Follow(ctx, fan2.ID, artist.ID))
	require.NoError(t, repo.Follow(ctx, fan2.ID, artist.ID))

	count, err := dir.FollowerCount(ctx, artist.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	ids, err := dir.FollowerIDs(ctx, artist.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{fan1.ID, fan2.ID}, ids)

	require.NoError(t, repo.Unfollow(ctx, fan1.ID, artist.ID))
	following, err := repo.IsFollowing(ctx, fan1.ID, artist.ID)
	require.NoError(t, err)
	assert.False(t, following)

	_, err = dir.GetTrack(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, notification.ErrSubjectNotFound)
}
