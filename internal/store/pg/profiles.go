package pg

import (
	"context"
	"time"

	"github.com/dropDatabas3/hirejohn/internal/store/core"
)

const profileColumns = `email, first_name, middle_name, last_name, phone,
	birth_date, birth_place, national_id, tax_id, marital_status, address,
	city, country, relative_in_org, last_modified`

func scanProfile(row interface{ Scan(...any) error }) (*core.Profile, error) {
	var p core.Profile
	err := row.Scan(
		&p.Email, &p.FirstName, &p.MiddleName, &p.LastName, &p.Phone,
		&p.BirthDate, &p.BirthPlace, &p.NationalID, &p.TaxID,
		&p.MaritalStatus, &p.Address, &p.City, &p.Country,
		&p.RelativeInOrg, &p.LastModified,
	)
	if err != nil {
		return nil, normalize(err)
	}
	return &p, nil
}

func (s *Store) GetProfileByEmail(ctx context.Context, email string) (*core.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM applicant_profile WHERE email = $1`
	return scanProfile(s.pool.QueryRow(ctx, query, email))
}

func (s *Store) CreateProfile(ctx context.Context, p *core.Profile) error {
	if p.LastModified.IsZero() {
		p.LastModified = time.Now().UTC()
	}
	const query = `
		INSERT INTO applicant_profile
			(email, first_name, middle_name, last_name, phone, birth_date,
			 birth_place, national_id, tax_id, marital_status, address, city,
			 country, relative_in_org, last_modified)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`
	_, err := s.pool.Exec(ctx, query,
		p.Email, p.FirstName, p.MiddleName, p.LastName, p.Phone, p.BirthDate,
		p.BirthPlace, p.NationalID, p.TaxID, p.MaritalStatus, p.Address,
		p.City, p.Country, p.RelativeInOrg, p.LastModified,
	)
	return normalize(err)
}

func (s *Store) UpdateProfileByEmail(ctx context.Context, email string, p *core.Profile) (*core.Profile, error) {
	const query = `
		UPDATE applicant_profile SET
			first_name = $2, middle_name = $3, last_name = $4, phone = $5,
			birth_date = $6, birth_place = $7, national_id = $8, tax_id = $9,
			marital_status = $10, address = $11, city = $12, country = $13,
			relative_in_org = $14, last_modified = NOW()
		WHERE email = $1
		RETURNING ` + profileColumns
	return scanProfile(s.pool.QueryRow(ctx, query,
		email, p.FirstName, p.MiddleName, p.LastName, p.Phone, p.BirthDate,
		p.BirthPlace, p.NationalID, p.TaxID, p.MaritalStatus, p.Address,
		p.City, p.Country, p.RelativeInOrg,
	))
}
