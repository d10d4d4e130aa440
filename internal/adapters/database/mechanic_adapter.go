package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
	"github.com/zatekoja/mechanicfinder/internal/domain/repositories"
	"github.com/zatekoja/mechanicfinder/internal/infrastructure/clients/postgres"
)

// nearbyQuery calls the SQL function installed by 004_proximity_search.sql.
const nearbyQuery = `SELECT id, business_name, distance_miles, rating, min_price, max_price
FROM find_nearby_mechanics($1, $2, $3, $4)`

// MechanicAdapter implements MechanicRepository using PostgreSQL
type MechanicAdapter struct {
	client *postgres.Client
	db     *goqu.Database
	x      *sqlx.DB
}

// NewMechanicAdapter creates a new PostgreSQL mechanic adapter
func NewMechanicAdapter(client *postgres.Client) repositories.MechanicRepository {
	return &MechanicAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
		x:      sqlx.NewDb(client.DB(), "postgres"),
	}
}

type mechanicRow struct {
	ID              string          `db:"id"`
	BusinessName    string          `db:"business_name"`
	OwnerName       string          `db:"owner_name"`
	Email           string          `db:"email"`
	PhoneNumber     string          `db:"phone_number"`
	Description     string          `db:"description"`
	Street          string          `db:"street"`
	City            string          `db:"city"`
	State           string          `db:"state"`
	ZipCode         string          `db:"zip_code"`
	Country         string          `db:"country"`
	Latitude        sql.NullFloat64 `db:"latitude"`
	Longitude       sql.NullFloat64 `db:"longitude"`
	YearsExperience int             `db:"years_experience"`
	Rating          float64         `db:"rating"`
	ReviewCount     int             `db:"review_count"`
	IsActive        bool            `db:"is_active"`
	IsVerified      bool            `db:"is_verified"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

var mechanicColumns = []interface{}{
	"id", "business_name", "owner_name", "email", "phone_number", "description",
	"street", "city", "state", "zip_code", "country", "latitude", "longitude",
	"years_experience", "rating", "review_count", "is_active", "is_verified",
	"created_at", "updated_at",
}

func (r mechanicRow) toEntity() entities.Mechanic {
	m := entities.Mechanic{
		ID:           r.ID,
		BusinessName: r.BusinessName,
		OwnerName:    r.OwnerName,
		Email:        r.Email,
		PhoneNumber:  r.PhoneNumber,
		Description:  r.Description,
		Address: entities.Address{
			Street:  r.Street,
			City:    r.City,
			State:   r.State,
			ZipCode: r.ZipCode,
			Country: r.Country,
		},
		YearsExperience: r.YearsExperience,
		Rating:          r.Rating,
		ReviewCount:     r.ReviewCount,
		IsActive:        r.IsActive,
		IsVerified:      r.IsVerified,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.Latitude.Valid && r.Longitude.Valid {
		m.Location = &entities.Location{Latitude: r.Latitude.Float64, Longitude: r.Longitude.Float64}
	}
	return m
}

func locationColumns(loc *entities.Location) (sql.NullFloat64, sql.NullFloat64) {
	if loc == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: loc.Latitude, Valid: true},
		sql.NullFloat64{Float64: loc.Longitude, Valid: true}
}

// Create inserts a new mechanic. The geography column is filled by trigger.
func (a *MechanicAdapter) Create(ctx context.Context, mechanic *entities.Mechanic) error {
	if mechanic.ID == "" {
		mechanic.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	mechanic.CreatedAt = now
	mechanic.UpdatedAt = now
	mechanic.Rating = 0
	mechanic.ReviewCount = 0

	lat, lng := locationColumns(mechanic.Location)
	record := goqu.Record{
		"id":               mechanic.ID,
		"business_name":    mechanic.BusinessName,
		"owner_name":       mechanic.OwnerName,
		"email":            mechanic.Email,
		"phone_number":     mechanic.PhoneNumber,
		"description":      mechanic.Description,
		"street":           mechanic.Address.Street,
		"city":             mechanic.Address.City,
		"state":            mechanic.Address.State,
		"zip_code":         mechanic.Address.ZipCode,
		"country":          mechanic.Address.Country,
		"latitude":         lat,
		"longitude":        lng,
		"years_experience": mechanic.YearsExperience,
		"is_active":        mechanic.IsActive,
		"is_verified":      mechanic.IsVerified,
		"created_at":       now,
		"updated_at":       now,
	}

	query, args, err := a.db.Insert("mechanics").Rows(record).Prepared(true).ToSQL()
	if err != nil {
		return classify(ctx, "failed to build mechanic insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return classify(ctx, "failed to create mechanic", err)
	}
	return nil
}

// GetActiveByID retrieves an active mechanic and the names of the services
// it currently offers
func (a *MechanicAdapter) GetActiveByID(ctx context.Context, id string) (*entities.MechanicDetail, error) {
	query, args, err := a.db.From("mechanics").
		Select(mechanicColumns...).
		Where(goqu.Ex{"id": id, "is_active": true}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, classify(ctx, "failed to build mechanic query", err)
	}

	var row mechanicRow
	if err := a.x.GetContext(ctx, &row, query, args...); err != nil {
		return nil, notFoundOr(ctx, "mechanic not found", "failed to get mechanic", err)
	}

	names, err := a.offeredServiceNames(ctx, id)
	if err != nil {
		return nil, err
	}

	return &entities.MechanicDetail{Mechanic: row.toEntity(), Services: names}, nil
}

func (a *MechanicAdapter) offeredServiceNames(ctx context.Context, mechanicID string) ([]string, error) {
	query, args, err := a.db.From(goqu.T("mechanic_services").As("ms")).
		Join(goqu.T("services").As("s"), goqu.On(goqu.Ex{"s.id": goqu.I("ms.service_id")})).
		SelectDistinct(goqu.I("s.name")).
		Where(goqu.Ex{
			"ms.mechanic_id":  mechanicID,
			"ms.is_available": true,
			"s.is_active":     true,
		}).
		Order(goqu.I("s.name").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, classify(ctx, "failed to build offered services query", err)
	}

	names := []string{}
	if err := a.x.SelectContext(ctx, &names, query, args...); err != nil {
		return nil, classify(ctx, "failed to list offered services", err)
	}
	return names, nil
}

// UpdateLocation replaces the coordinates; the trigger re-derives the point
func (a *MechanicAdapter) UpdateLocation(ctx context.Context, id string, location *entities.Location) error {
	lat, lng := locationColumns(location)
	return a.update(ctx, id, goqu.Record{"latitude": lat, "longitude": lng}, "failed to update mechanic location")
}

// SetVerified sets the verification flag
func (a *MechanicAdapter) SetVerified(ctx context.Context, id string, verified bool) error {
	return a.update(ctx, id, goqu.Record{"is_verified": verified}, "failed to update mechanic verification")
}

// Deactivate marks the mechanic inactive
func (a *MechanicAdapter) Deactivate(ctx context.Context, id string) error {
	return a.update(ctx, id, goqu.Record{"is_active": false}, "failed to deactivate mechanic")
}

func (a *MechanicAdapter) update(ctx context.Context, id string, record goqu.Record, message string) error {
	record["updated_at"] = time.Now().UTC()

	query, args, err := a.db.Update("mechanics").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return classify(ctx, "failed to build mechanic update query", err)
	}

	res, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return classify(ctx, message, err)
	}
	return requireAffected(ctx, res, "mechanic not found", message)
}

// FindNearby runs the proximity search function
func (a *MechanicAdapter) FindNearby(ctx context.Context, params repositories.NearbyParams) ([]entities.NearbyMechanic, error) {
	filter := sql.NullString{String: params.ServiceFilter, Valid: params.ServiceFilter != ""}

	results := []entities.NearbyMechanic{}
	err := a.x.SelectContext(ctx, &results, nearbyQuery,
		params.Latitude, params.Longitude, params.RadiusMiles, filter)
	if err != nil {
		return nil, classify(ctx, "failed to search nearby mechanics", err)
	}
	return results, nil
}
