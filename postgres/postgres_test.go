package postgres_test

import (
	"context"
	"testing"
	"time"

	"phonebook/postgres"

	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

type Info struct {
	CurrentUser string `db:"current_user"`
}

func TestConnection(t *testing.T) {
	dbName, dbUser, dbPass := "phonebook", "phonebook", "123456"
	db := CreateConnection(t, dbName, dbUser, dbPass)
	MigrateTestDatabase(t, db, "../migrations")

	var info Info
	err := db.Raw("SELECT current_user").Scan(&info).Error
	assert.NoError(t, err)
	assert.Equal(t, dbUser, info.CurrentUser)

	var tables int
	err = db.Raw("SELECT count(*) FROM information_schema.tables WHERE table_name = 'contacts'").Scan(&tables).Error
	assert.NoError(t, err)
	assert.Equal(t, 1, tables)
}

func TestNewConnection_Error(t *testing.T) {
	opts := postgres.Options{
		DBName:   "nonexistent",
		DBUser:   "invaliduser",
		Password: "wrongpass",
		Host:     "invalidhost",
		Port:     "5432",
		SSLMode:  true,
	}

	_, err := postgres.NewConnection(opts)
	assert.Error(t, err)
}

func TestOptions_DSN(t *testing.T) {
	opts := postgres.Options{DBName: "db", DBUser: "u", Password: "p", Host: "h", Port: "1"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=db sslmode=disable", opts.DSN())

	opts.SSLMode = true
	assert.Contains(t, opts.DSN(), "sslmode=require")
}

func MigrateTestDatabase(t testing.TB, db *gorm.DB, migrationPath string) {
	t.Helper()

	migrations := &migrate.FileMigrationSource{
		Dir: migrationPath,
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)

	_, err = migrate.Exec(sqlDB, "postgres", migrations, migrate.Up)
	require.NoError(t, err)
}

func CreateConnection(t *testing.T, dbName string, dbUser string, dbPass string) *gorm.DB {
	cont := SetupPostgresContainer(t, dbName, dbUser, dbPass)
	host, _ := cont.Host(context.Background())
	port, _ := cont.MappedPort(context.Background(), "5432")

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   dbName,
		DBUser:   dbUser,
		Password: dbPass,
		Host:     host,
		Port:     port.Port(),
	})
	require.NoError(t, err)

	return db
}

func SetupPostgresContainer(t *testing.T, dbname, user, password string) testcontainers.Container {
	skipWithoutDocker(t)
	ctx := context.Background()
	container, err := pgcontainer.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:15.2-alpine"),
		pgcontainer.WithDatabase(dbname),
		pgcontainer.WithUsername(user),
		pgcontainer.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, container.Terminate(ctx))
	})

	return container
}

// skipWithoutDocker skips container backed tests in short mode or when no
// Docker daemon is reachable.
func skipWithoutDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("container tests are skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}
