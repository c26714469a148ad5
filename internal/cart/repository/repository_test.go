package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"

	gormpostgres "gorm.io/driver/postgres"
)

const (
	postgresImage = "postgres:17.6-alpine3.22"
)

func startPostgres(ctx context.Context) (*tcpostgres.PostgresContainer, string, error) {
	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.BasicWaitStrategies(),
		tcpostgres.WithInitScripts(
			"../../../migrations/01_products.sql",
			"../../../migrations/02_users.sql",
			"../../../migrations/03_cart_items.sql",
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	return container, connStr, nil
}

func openConnections(t *testing.T, ctx context.Context, connStr string) (*sql.DB, *gorm.DB) {
	t.Helper()

	sqlDB, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, sqlDB.PingContext(ctx))

	gormDB, err := gorm.Open(gormpostgres.Open(connStr), &gorm.Config{})
	require.NoError(t, err)

	return sqlDB, gormDB
}

func terminate(t *testing.T, container testcontainers.Container) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := container.Terminate(ctx); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}
