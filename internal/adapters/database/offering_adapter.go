package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/zatekoja/mechanicfinder/internal/domain/entities"
	"github.com/zatekoja/mechanicfinder/internal/domain/repositories"
	"github.com/zatekoja/mechanicfinder/internal/infrastructure/clients/postgres"
)

// OfferingAdapter implements OfferingRepository using PostgreSQL
type OfferingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewOfferingAdapter creates a new PostgreSQL offering adapter
func NewOfferingAdapter(client *postgres.Client) repositories.OfferingRepository {
	return &OfferingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Upsert creates or replaces the offering for (mechanic, service). Price
// ordering is enforced by the table's CHECK constraints.
func (a *OfferingAdapter) Upsert(ctx context.Context, offering *entities.MechanicService) error {
	if offering.ID == "" {
		offering.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	offering.CreatedAt = now
	offering.UpdatedAt = now

	record := goqu.Record{
		"id":             offering.ID,
		"mechanic_id":    offering.MechanicID,
		"service_id":     offering.ServiceID,
		"min_price":      offering.MinPrice,
		"max_price":      offering.MaxPrice,
		"labor_cost_min": nullFloat(offering.LaborCost.Min),
		"labor_cost_max": nullFloat(offering.LaborCost.Max),
		"parts_cost_min": nullFloat(offering.PartsCost.Min),
		"parts_cost_max": nullFloat(offering.PartsCost.Max),
		"is_available":   offering.IsAvailable,
		"created_at":     now,
		"updated_at":     now,
	}

	query, args, err := a.db.Insert("mechanic_services").
		Rows(record).
		OnConflict(goqu.DoUpdate("mechanic_id, service_id", goqu.Record{
			"min_price":      goqu.I("EXCLUDED.min_price"),
			"max_price":      goqu.I("EXCLUDED.max_price"),
			"labor_cost_min": goqu.I("EXCLUDED.labor_cost_min"),
			"labor_cost_max": goqu.I("EXCLUDED.labor_cost_max"),
			"parts_cost_min": goqu.I("EXCLUDED.parts_cost_min"),
			"parts_cost_max": goqu.I("EXCLUDED.parts_cost_max"),
			"is_available":   goqu.I("EXCLUDED.is_available"),
			"updated_at":     goqu.I("EXCLUDED.updated_at"),
		})).
		Returning("id", "created_at").
		Prepared(true).
		ToSQL()
	if err != nil {
		return classify(ctx, "failed to build offering upsert query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	if err := row.Scan(&offering.ID, &offering.CreatedAt); err != nil {
		return classify(ctx, "failed to upsert offering", err)
	}
	return nil
}

// SetAvailability toggles whether the offering can be booked
func (a *OfferingAdapter) SetAvailability(ctx context.Context, mechanicID, serviceID string, available bool) error {
	query, args, err := a.db.Update("mechanic_services").
		Set(goqu.Record{"is_available": available, "updated_at": time.Now().UTC()}).
		Where(goqu.Ex{"mechanic_id": mechanicID, "service_id": serviceID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return classify(ctx, "failed to build offering update query", err)
	}

	res, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return classify(ctx, "failed to update offering availability", err)
	}
	return requireAffected(ctx, res, "offering not found", "failed to update offering availability")
}
