package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dropDatabas3/hirejohn/internal/store/core"
)

func (s *Store) GetIntegrationConfig(ctx context.Context, id string) (*core.IntegrationConfig, error) {
	var c core.IntegrationConfig
	err := s.configs().FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		return nil, normalize(err)
	}
	return &c, nil
}

func (s *Store) FirstIntegrationConfig(ctx context.Context) (*core.IntegrationConfig, error) {
	var c core.IntegrationConfig
	err := s.configs().FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.M{"_id": 1}),
	).Decode(&c)
	if err != nil {
		return nil, normalize(err)
	}
	return &c, nil
}

func (s *Store) GetAppSetup(ctx context.Context) (*core.AppSetup, error) {
	var a core.AppSetup
	err := s.appSetup().FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.M{"createdAt": 1}),
	).Decode(&a)
	if err != nil {
		return nil, normalize(err)
	}
	return &a, nil
}

func (s *Store) CreateAppSetup(ctx context.Context, a *core.AppSetup) error {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	if _, err := s.appSetup().InsertOne(ctx, a); err != nil {
		return normalize(err)
	}
	return nil
}

func (s *Store) UpdateAppSetup(ctx context.Context, setupID string, a *core.AppSetup) (*core.AppSetup, error) {
	update := bson.M{"$set": bson.M{
		"companyName": a.CompanyName,
		"configId":    a.ConfigID,
		"updatedAt":   time.Now().UTC(),
	}}
	var out core.AppSetup
	err := s.appSetup().FindOneAndUpdate(
		ctx, bson.M{"_id": setupID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return nil, normalize(err)
	}
	return &out, nil
}
