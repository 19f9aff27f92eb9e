// Package mongo implementa core.Repository sobre MongoDB.
//
// El motor documental no tiene ids autoincrementales ni esquema: este
// adapter emula los comportamientos relacionales que el servicio espera
// (ver accounts.go) y declara la unicidad de email como índice único a
// nivel colección.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dropDatabas3/hirejohn/internal/store/core"
)

const (
	collectionAccounts = "recruitment_user"
	collectionProfiles = "applicant_profile"
	collectionConfigs  = "bc_configs"
	collectionAppSetup = "app_setup"

	opTimeout = 10 * time.Second
)

type Store struct {
	client *mongo.Client
	dbName string

	// Serializa la emulación de id autoincremental (read-max-then-insert).
	// Ver CreateAccount.
	idMu sync.Mutex
}

func New(ctx context.Context, uri, database string) (*Store, error) {
	if uri == "" || database == "" {
		return nil, fmt.Errorf("mongo: uri and database are required")
	}
	cctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	client, err := mongo.Connect(cctx,
		options.Client().ApplyURI(uri),
		options.Client().SetMaxConnIdleTime(5*time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	pctx, pcancel := context.WithTimeout(ctx, opTimeout)
	defer pcancel()
	if err := client.Ping(pctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	s := &Store{client: client, dbName: database}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) getContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

func (s *Store) accounts() *mongo.Collection {
	return s.client.Database(s.dbName).Collection(collectionAccounts)
}

func (s *Store) profiles() *mongo.Collection {
	return s.client.Database(s.dbName).Collection(collectionProfiles)
}

func (s *Store) configs() *mongo.Collection {
	return s.client.Database(s.dbName).Collection(collectionConfigs)
}

func (s *Store) appSetup() *mongo.Collection {
	return s.client.Database(s.dbName).Collection(collectionAppSetup)
}

// ensureIndexes declara email como único: la colisión de un insert
// concurrente la decide el índice, no el pre-check de la aplicación.
func (s *Store) ensureIndexes(ctx context.Context) error {
	ictx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.accounts().Indexes().CreateMany(ictx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("mongo: create indexes: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// QueryRaw corre un comando de diagnóstico contra la base (ej. "ping",
// "serverStatus") y devuelve el documento resultado.
func (s *Store) QueryRaw(ctx context.Context, query string) (any, error) {
	var out bson.M
	err := s.client.Database(s.dbName).RunCommand(ctx, bson.D{{Key: query, Value: 1}}).Decode(&out)
	if err != nil {
		return nil, normalize(err)
	}
	return out, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// normalize traduce errores del driver a los sentinelas de core usando los
// predicados del driver, nunca substrings de mensajes.
func normalize(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return core.ErrConflict
	}
	return fmt.Errorf("mongo: %w", err)
}
