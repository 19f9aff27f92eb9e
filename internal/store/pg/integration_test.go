//go:build integration

package pg

import (
	"context"
	"os"
	"testing"

	"github.com/dropDatabas3/hirejohn/internal/store/storetest"
)

// Corre con: go test -tags integration ./internal/store/... con una base
// de prueba levantada y PG_TEST_DSN apuntando a ella.
func TestRepositoryConformance(t *testing.T) {
	dsn := os.Getenv("PG_TEST_DSN")
	if dsn == "" {
		t.Skip("PG_TEST_DSN no seteado")
	}
	ctx := context.Background()
	st, err := New(ctx, dsn, Options{})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	storetest.Run(t, st)
}
