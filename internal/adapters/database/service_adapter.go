package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
	"github.com/zatekoja/mechanicfinder/internal/domain/repositories"
	"github.com/zatekoja/mechanicfinder/internal/infrastructure/clients/postgres"
)

// ServiceAdapter implements ServiceRepository using PostgreSQL
type ServiceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
	x      *sqlx.DB
}

// NewServiceAdapter creates a new PostgreSQL service catalog adapter
func NewServiceAdapter(client *postgres.Client) repositories.ServiceRepository {
	return &ServiceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
		x:      sqlx.NewDb(client.DB(), "postgres"),
	}
}

// Create inserts a catalog service
func (a *ServiceAdapter) Create(ctx context.Context, service *entities.Service) error {
	if service.ID == "" {
		service.ID = uuid.NewString()
	}
	service.CreatedAt = time.Now().UTC()

	record := goqu.Record{
		"id":                 service.ID,
		"name":               service.Name,
		"description":        service.Description,
		"category":           service.Category,
		"estimated_duration": service.EstimatedDuration,
		"is_active":          service.IsActive,
		"created_at":         service.CreatedAt,
	}

	query, args, err := a.db.Insert("services").Rows(record).Prepared(true).ToSQL()
	if err != nil {
		return classify(ctx, "failed to build service insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return classify(ctx, "failed to create service", err)
	}
	return nil
}

// UpsertTranslation writes the name and description for one language
func (a *ServiceAdapter) UpsertTranslation(ctx context.Context, translation *entities.ServiceTranslation) error {
	record := goqu.Record{
		"service_id":    translation.ServiceID,
		"language_code": translation.LanguageCode,
		"name":          translation.Name,
		"description":   translation.Description,
	}

	query, args, err := a.db.Insert("service_translations").
		Rows(record).
		OnConflict(goqu.DoUpdate("service_id, language_code", goqu.Record{
			"name":        goqu.I("EXCLUDED.name"),
			"description": goqu.I("EXCLUDED.description"),
		})).
		Prepared(true).
		ToSQL()
	if err != nil {
		return classify(ctx, "failed to build translation upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return classify(ctx, "failed to upsert service translation", err)
	}
	return nil
}

// ListLocalized returns active services with text resolved to languageCode.
// Services without a translation keep their canonical text.
func (a *ServiceAdapter) ListLocalized(ctx context.Context, languageCode string) ([]entities.LocalizedService, error) {
	query, args, err := a.db.From(goqu.T("services").As("s")).
		LeftJoin(goqu.T("service_translations").As("t"), goqu.On(goqu.Ex{
			"t.service_id":    goqu.I("s.id"),
			"t.language_code": languageCode,
		})).
		Select(
			goqu.I("s.id"),
			goqu.I("s.category"),
			goqu.I("s.estimated_duration"),
			goqu.COALESCE(goqu.I("t.name"), goqu.I("s.name")).As("name"),
			goqu.COALESCE(goqu.I("t.description"), goqu.I("s.description")).As("description"),
		).
		Where(goqu.Ex{"s.is_active": true}).
		Order(goqu.I("s.category").Asc(), goqu.C("name").Asc(), goqu.I("s.id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, classify(ctx, "failed to build service list query", err)
	}

	services := []entities.LocalizedService{}
	if err := a.x.SelectContext(ctx, &services, query, args...); err != nil {
		return nil, classify(ctx, "failed to list services", err)
	}
	return services, nil
}
