package warehouse

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgres_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "user",
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_DB":       "sales",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: pgReq, Started: true})
	require.NoError(t, err)
	defer pgContainer.Terminate(context.Background())

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	url := fmt.Sprintf("postgres://user:password@%s:%s/sales?sslmode=disable", host, port.Port())
	dest, err := Open(ctx, Options{Driver: DriverPostgres, Table: "transactions", DatabaseURL: url, Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer dest.Close()
	assert.Equal(t, "PostgreSQL", dest.Name)

	row := map[string]any{"order_id": "ORD-1", "total_amount": 20.0, "tax_amount": 2.0, "final_amount": 22.0}
	require.NoError(t, dest.Inserter.InsertRow(ctx, "transactions", row))

	pg := dest.Inserter.(*timeoutInserter).next.(*Postgres)
	var orderID string
	var final float64
	err = pg.pool.QueryRow(ctx, `SELECT order_id, (payload->>'final_amount')::float8 FROM transactions`).Scan(&orderID, &final)
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", orderID)
	assert.Equal(t, 22.0, final)

	err = dest.Inserter.InsertRow(ctx, "missing_table", row)
	var ie *InsertError
	require.ErrorAs(t, err, &ie)
	assert.Contains(t, ie.Errors[0], "42P01")
}
