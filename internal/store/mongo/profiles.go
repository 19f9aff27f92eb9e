package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dropDatabas3/hirejohn/internal/store/core"
)

// El profile usa el email como _id directamente (sin surrogate key),
// fijado en el insert. Ver core.Profile.

func (s *Store) GetProfileByEmail(ctx context.Context, email string) (*core.Profile, error) {
	var p core.Profile
	err := s.profiles().FindOne(ctx, bson.M{"_id": email}).Decode(&p)
	if err != nil {
		return nil, normalize(err)
	}
	return &p, nil
}

func (s *Store) CreateProfile(ctx context.Context, p *core.Profile) error {
	if p.LastModified.IsZero() {
		p.LastModified = time.Now().UTC()
	}
	if _, err := s.profiles().InsertOne(ctx, p); err != nil {
		return normalize(err)
	}
	return nil
}

func (s *Store) UpdateProfileByEmail(ctx context.Context, email string, p *core.Profile) (*core.Profile, error) {
	p.Email = email
	p.LastModified = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"firstName":     p.FirstName,
		"middleName":    p.MiddleName,
		"lastName":      p.LastName,
		"phone":         p.Phone,
		"birthDate":     p.BirthDate,
		"birthPlace":    p.BirthPlace,
		"nationalId":    p.NationalID,
		"taxId":         p.TaxID,
		"maritalStatus": p.MaritalStatus,
		"address":       p.Address,
		"city":          p.City,
		"country":       p.Country,
		"relativeInOrg": p.RelativeInOrg,
		"lastModified":  p.LastModified,
	}}

	var out core.Profile
	err := s.profiles().FindOneAndUpdate(
		ctx, bson.M{"_id": email}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return nil, normalize(err)
	}
	return &out, nil
}
