package postgres_test

import (
	"context"
	"testing"

	"phonebook/contact"
	"phonebook/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestContactRepository(t *testing.T) {
	db := CreateConnection(t, "contact_test", "testuser", "testpass")
	MigrateTestDatabase(t, db, "../migrations")
	ctx := context.Background()

	t.Run("creates contacts with increasing ids", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)

		ann, err := repo.CreateContact(ctx, contact.Contact{Name: "Ann", Phone: "555-1111"})
		require.NoError(t, err)
		bo, err := repo.CreateContact(ctx, contact.Contact{Name: "Bo", Phone: "555-2222", Email: "bo@x.io"})
		require.NoError(t, err)

		assert.Equal(t, int64(1), ann.ID)
		assert.Equal(t, int64(2), bo.ID)
		assertContactExists(t, db, bo)
	})

	t.Run("ignores a caller supplied id", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)

		c, err := repo.CreateContact(ctx, contact.Contact{ID: 77, Name: "Ann"})

		require.NoError(t, err)
		assert.Equal(t, int64(1), c.ID)
	})

	t.Run("does not reuse ids after delete", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		first, _ := repo.CreateContact(ctx, contact.Contact{Name: "Ann"})
		require.NoError(t, repo.DeleteContact(ctx, first.ID))

		second, err := repo.CreateContact(ctx, contact.Contact{Name: "Bo"})

		require.NoError(t, err)
		assert.Equal(t, int64(2), second.ID)
	})

	t.Run("returns all contacts ordered by id", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		expected := []contact.Contact{
			{ID: 1, Name: "Alice Smith", Phone: "1111111111"},
			{ID: 2, Name: "Bob Johnson", Phone: "2222222222", Favorite: true},
			{ID: 3, Name: "Charlie Brown", Phone: "3333333333", Notes: "neighbour"},
		}
		for _, c := range expected {
			_, err := repo.CreateContact(ctx, c)
			require.NoError(t, err)
		}

		contacts, err := repo.AllContacts(ctx)

		require.NoError(t, err)
		assert.Equal(t, expected, contacts)
	})

	t.Run("returns empty list when no contacts exist", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)

		contacts, err := repo.AllContacts(ctx)

		require.NoError(t, err)
		assert.Empty(t, contacts)
	})

	t.Run("merges an update and keeps the image", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		c, _ := repo.CreateContact(ctx, contact.Contact{Name: "Ann", Phone: "555-1111", Image: "data:image/png;base64,AAAA"})
		favorite := true

		updated, err := repo.UpdateContact(ctx, c.ID, contact.Patch{Favorite: &favorite})

		require.NoError(t, err)
		assert.True(t, updated.Favorite)
		assert.Equal(t, "data:image/png;base64,AAAA", updated.Image)
		assertContactExists(t, db, updated)
	})

	t.Run("update of unknown id is not found", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)

		_, err := repo.UpdateContact(ctx, 99, contact.Patch{})

		assert.Equal(t, contact.ErrContactNotFound, err)
	})

	t.Run("delete of unknown id succeeds", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)

		assert.NoError(t, repo.DeleteContact(ctx, 99))
	})

	t.Run("fails with closed database connection", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		mustCloseDBConnection(db)

		_, err := repo.AllContacts(ctx)

		assert.Error(t, err)
	})
}

func mustCloseDBConnection(db *gorm.DB) {
	sqlDB, _ := db.DB()
	sqlDB.Close()
}

// assertContactExists verifies that the stored row matches expected
func assertContactExists(t testing.TB, db *gorm.DB, expected contact.Contact) {
	t.Helper()
	var model postgres.ContactModel
	result := db.First(&model, expected.ID)
	require.NoError(t, result.Error, "contact should exist in database")
	assert.Equal(t, expected.Name, model.Name)
	assert.Equal(t, expected.Phone, model.Phone)
	assert.Equal(t, expected.Email, model.Email)
	assert.Equal(t, expected.Image, model.Image)
	assert.Equal(t, expected.Favorite, model.Favorite)
}

// cleanupContactDatabase truncates the table and resets the id sequence
func cleanupContactDatabase(t testing.TB, db *gorm.DB) {
	t.Helper()
	err := db.Exec("TRUNCATE TABLE contacts RESTART IDENTITY CASCADE").Error
	require.NoError(t, err)
}
