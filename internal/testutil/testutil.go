package testutil

import (
	"context"
	"net"
	"os/exec"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/quizly/quizly/internal/db"
)

// RandomPort reserves and releases a free port on localhost
func RandomPort() (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:")
	if err != nil {
		return 0, err
	}
	defer ln.Close() // nolint:errcheck

	return ln.Addr().(*net.TCPAddr).Port, nil
}

type PostgresContainer struct {
	Pool      *pgxpool.Pool
	DSN       string
	Terminate func()
}

// StartPostgresContainer runs postgres in docker with migrations applied
// The caller is expected to Terminate it when the tests are done
func StartPostgresContainer(t *testing.T) PostgresContainer {
	t.Helper()

	// Make missing docker an explicit failure instead of a cryptic one later
	if out, err := exec.Command("docker", "info", "--format", "{{.ServerVersion}}").CombinedOutput(); err != nil {
		t.Fatalf("docker is not available, db backed tests need it. Output: %s", out)
	}

	container, err := postgres.Run(t.Context(),
		"postgres:17-alpine",
		postgres.WithDatabase("quizly-test"),
		postgres.WithUsername("quizly"),
		postgres.WithPassword("pwd"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "container with postgres should start")

	dsn, err := container.ConnectionString(t.Context())
	require.NoError(t, err, "container should expose a connection string")
	t.Logf("Postgres container started, DSN=%v", dsn)

	dbpool, err := db.ConnectAndMigrate(t.Context(), dsn)
	require.NoError(t, err, "connect and migrate should succeed against a fresh database")

	return PostgresContainer{
		Pool: dbpool,
		DSN:  dsn,
		Terminate: func() {
			dbpool.Close()
			testcontainers.CleanupContainer(t, container)
		},
	}
}

type txBeginner interface {
	Begin(context.Context) (pgx.Tx, error)
}

// WithTx runs testFunc inside a transaction that is always rolled back
// Whatever the test writes never reaches the shared database state
func WithTx(conn txBeginner, t *testing.T, testFunc func(tx pgx.Tx)) {
	tx, err := conn.Begin(t.Context())
	require.NoError(t, err)

	defer func() {
		require.NoError(t, tx.Rollback(t.Context()), "test transaction should roll back cleanly")
	}()

	testFunc(tx)
}
