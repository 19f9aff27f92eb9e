//go:build integration

package mongo

import (
	"context"
	"os"
	"testing"

	"github.com/dropDatabas3/hirejohn/internal/store/storetest"
)

// Corre con: go test -tags integration ./internal/store/... con un mongod
// de prueba levantado y MONGO_TEST_URI apuntando a él.
func TestRepositoryConformance(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI no seteado")
	}
	db := os.Getenv("MONGO_TEST_DB")
	if db == "" {
		db = "hirejohn_test"
	}
	ctx := context.Background()
	st, err := New(ctx, uri, db)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	storetest.Run(t, st)
}
