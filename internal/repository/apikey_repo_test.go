package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aihub-dev/aihub_go_server/internal/model"
	"github.com/aihub-dev/aihub_go_server/internal/testutil"
)

func createAPIKey(t *testing.T, repo *APIKeyRepository, userID int64, key string) *model.APIKey {
	t.Helper()

	apiKey := &model.APIKey{
		UserID:   userID,
		Name:     "test key",
		Key:      key,
		IsActive: true,
	}
	require.NoError(t, repo.Create(apiKey))
	return apiKey
}

func TestAPIKeyRepository_GetByKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAPIKeyRepository(db)
	user := testutil.TestUser(t, db)
	created := createAPIKey(t, repo, user.ID, "ak_abc123")

	found, err := repo.GetByKey("ak_abc123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, user.ID, found.UserID)

	_, err = repo.GetByKey("ak_unknown")
	assert.Error(t, err)
}

func TestAPIKeyRepository_Revoke(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAPIKeyRepository(db)
	user := testutil.TestUser(t, db)
	created := createAPIKey(t, repo, user.ID, "ak_abc123")

	revoked, err := repo.Revoke(created.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	found, err := repo.GetByKey("ak_abc123")
	require.NoError(t, err)
	assert.False(t, found.IsActive)
}

func TestAPIKeyRepository_Revoke_WrongUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAPIKeyRepository(db)
	owner := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	created := createAPIKey(t, repo, owner.ID, "ak_abc123")

	revoked, err := repo.Revoke(created.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestAPIKeyRepository_TouchLastUsed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAPIKeyRepository(db)
	user := testutil.TestUser(t, db)
	created := createAPIKey(t, repo, user.ID, "ak_abc123")

	at := time.Now()
	require.NoError(t, repo.TouchLastUsed(created.ID, at))

	found, err := repo.GetByKey("ak_abc123")
	require.NoError(t, err)
	require.NotNil(t, found.LastUsedAt)
	assert.WithinDuration(t, at, *found.LastUsedAt, time.Second)
}
