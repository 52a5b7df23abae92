package activity

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"go.temporal.io/sdk/temporal"
)

// Schema applies the tenant database schema to a freshly provisioned project.
type Schema struct {
	schemaPath string
}

func NewSchema(schemaPath string) *Schema {
	return &Schema{schemaPath: schemaPath}
}

type ApplyTenantSchemaParams struct {
	DatabaseURL string `json:"database_url"`
}

// enableRLS locks down every public table; the schema file itself only
// creates objects.
const enableRLS = `
DO $$
DECLARE
    tbl record;
BEGIN
    FOR tbl IN
        SELECT tablename FROM pg_tables WHERE schemaname = 'public'
    LOOP
        EXECUTE format('ALTER TABLE public.%I ENABLE ROW LEVEL SECURITY', tbl.tablename);
    END LOOP;
END $$;
`

// ApplyTenantSchema executes the schema file against the tenant database and
// enables row level security on all public tables. Connection failures stay
// retryable (the database may still be warming up); SQL failures do not.
func (a *Schema) ApplyTenantSchema(ctx context.Context, params ApplyTenantSchemaParams) error {
	schema, err := os.ReadFile(a.schemaPath)
	if err != nil {
		return temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("read tenant schema %s", a.schemaPath), "SCHEMA_ERROR", err)
	}

	conn, err := pgx.Connect(ctx, params.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect tenant database: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, string(schema)); err != nil {
		return temporal.NewNonRetryableApplicationError("apply tenant schema", "SCHEMA_ERROR", err)
	}
	if _, err := conn.Exec(ctx, enableRLS); err != nil {
		return temporal.NewNonRetryableApplicationError("enable row level security", "SCHEMA_ERROR", err)
	}
	return nil
}
