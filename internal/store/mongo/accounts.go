package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dropDatabas3/hirejohn/internal/store/core"
)

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*core.Account, error) {
	var a core.Account
	err := s.accounts().FindOne(ctx, bson.M{"email": email}).Decode(&a)
	if err != nil {
		return nil, normalize(err)
	}
	return &a, nil
}

func (s *Store) GetAccountByID(ctx context.Context, id int64) (*core.Account, error) {
	var a core.Account
	err := s.accounts().FindOne(ctx, bson.M{"id": id}).Decode(&a)
	if err != nil {
		return nil, normalize(err)
	}
	return &a, nil
}

// nextAccountID emula el autoincremental relacional: lee el id máximo
// (orden descendente, proyectado sólo al campo id) y devuelve max+1, o 1 si
// la colección está vacía.
//
// La lectura y el insert posterior NO son atómicos: dos inserts concurrentes
// podrían observar el mismo máximo. El mutex de proceso (idMu, tomado por
// CreateAccount) cierra esa ventana dentro de un proceso; entre procesos la
// cubre el índice único sobre id. El autoincremental nativo de Postgres es
// el comportamiento de referencia que esto aproxima.
func (s *Store) nextAccountID(ctx context.Context) (int64, error) {
	opts := options.FindOne().
		SetSort(bson.M{"id": -1}).
		SetProjection(bson.M{"id": 1})

	var top struct {
		ID int64 `bson:"id"`
	}
	err := s.accounts().FindOne(ctx, bson.M{}, opts).Decode(&top)
	if err == mongo.ErrNoDocuments {
		return 1, nil
	}
	if err != nil {
		return 0, normalize(err)
	}
	return top.ID + 1, nil
}

func (s *Store) CreateAccount(ctx context.Context, a *core.Account) error {
	s.idMu.Lock()
	defer s.idMu.Unlock()

	if a.ID == 0 {
		id, err := s.nextAccountID(ctx)
		if err != nil {
			return err
		}
		a.ID = id
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.accounts().InsertOne(ctx, a); err != nil {
		return normalize(err)
	}
	return nil
}

func (s *Store) UpdateAccountByEmail(ctx context.Context, email string, upd core.AccountUpdate) (*core.Account, error) {
	return s.updateAccount(ctx, bson.M{"email": email}, upd)
}

func (s *Store) UpdateAccountByID(ctx context.Context, id int64, upd core.AccountUpdate) (*core.Account, error) {
	return s.updateAccount(ctx, bson.M{"id": id}, upd)
}

func (s *Store) updateAccount(ctx context.Context, filter bson.M, upd core.AccountUpdate) (*core.Account, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	unset := bson.M{}

	if upd.FullName != nil {
		set["fullName"] = *upd.FullName
	}
	if upd.PasswordHash != nil {
		set["passwordHash"] = *upd.PasswordHash
	}
	if upd.PasswordSalt != nil {
		set["passwordSalt"] = *upd.PasswordSalt
	}
	if upd.OTPSecret != nil {
		set["otpSecret"] = *upd.OTPSecret
	}
	if upd.OTPExpiry != nil {
		set["otpExpiry"] = *upd.OTPExpiry
	} else if upd.ClearOTPExpiry {
		unset["otpExpiry"] = ""
	}
	if upd.Verified != nil {
		set["verified"] = *upd.Verified
	}
	if upd.ProfileCreated != nil {
		set["profileCreated"] = *upd.ProfileCreated
	}
	if upd.ResetToken != nil {
		set["resetToken"] = *upd.ResetToken
	} else if upd.ClearResetToken {
		unset["resetToken"] = ""
		unset["resetExpiry"] = ""
	}
	if upd.ResetExpiry != nil {
		set["resetExpiry"] = *upd.ResetExpiry
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var a core.Account
	err := s.accounts().FindOneAndUpdate(
		ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		return nil, normalize(err)
	}
	return &a, nil
}
