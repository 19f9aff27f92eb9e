package mongo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dropDatabas3/hirejohn/internal/store/core"
)

func TestNormalize(t *testing.T) {
	require.NoError(t, normalize(nil))

	require.ErrorIs(t, normalize(mongo.ErrNoDocuments), core.ErrNotFound)

	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	require.ErrorIs(t, normalize(dup), core.ErrConflict)

	plain := errors.New("server selection timeout")
	err := normalize(plain)
	require.Error(t, err)
	require.ErrorIs(t, err, plain)
	require.NotErrorIs(t, err, core.ErrNotFound)
}
