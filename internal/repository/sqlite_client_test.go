package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timbertrack/timber/internal/testutil"
)

func TestClientRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteClientRepo(db)
	ctx := context.Background()

	c := testutil.NewTestClient("Acme", testutil.WithClientNote("retainer"))
	id, err := repo.Create(ctx, c)
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.Equal(t, id, c.ID)

	fetched, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", fetched.Name)
	assert.Equal(t, "retainer", fetched.Note)
}

func TestClientRepo_Create_DuplicateName(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteClientRepo(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, testutil.NewTestClient("Acme"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, testutil.NewTestClient("Acme", testutil.WithClientNote("other")))
	assert.ErrorIs(t, err, ErrAlreadyExists)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Note, "failed insert must not alter the existing row")
}

func TestClientRepo_Create_RejectsBlankName(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteClientRepo(db)

	_, err := repo.Create(context.Background(), testutil.NewTestClient("  "))
	assert.Error(t, err)
}

func TestClientRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteClientRepo(db)

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientRepo_FindIDByName(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteClientRepo(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, testutil.NewTestClient("Acme"))
	require.NoError(t, err)

	found, ok, err := repo.FindIDByName(ctx, "Acme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id, found)

	_, ok, err = repo.FindIDByName(ctx, "acme")
	require.NoError(t, err)
	assert.False(t, ok, "name lookup is case sensitive")
}

func TestClientRepo_List_InsertionOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteClientRepo(db)
	ctx := context.Background()

	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		_, err := repo.Create(ctx, testutil.NewTestClient(name))
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Zeta", list[0].Name)
	assert.Equal(t, "Alpha", list[1].Name)
	assert.Equal(t, "Mid", list[2].Name)
}

func TestClientRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteClientRepo(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, testutil.NewTestClient("Acme"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, id), ErrNotFound)
}

func TestClientRepo_Delete_Referenced(t *testing.T) {
	db := testutil.NewTestDB(t)
	clients := NewSQLiteClientRepo(db)
	sessions := NewSQLiteSessionRepo(db)
	ctx := context.Background()

	id, err := clients.Create(ctx, testutil.NewTestClient("Acme"))
	require.NoError(t, err)
	_, err = sessions.Create(ctx, testutil.NewTestSession(id, time.Now()))
	require.NoError(t, err)

	err = clients.Delete(ctx, id)
	assert.ErrorIs(t, err, ErrReferenced)

	_, err = clients.GetByID(ctx, id)
	assert.NoError(t, err, "referenced client must survive")
}
