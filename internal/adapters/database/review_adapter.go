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

// ReviewAdapter implements ReviewRepository using PostgreSQL. The rating
// aggregate is maintained by trg_reviews_refresh_rating inside the same
// statement, so no explicit transaction is needed here.
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
	x      *sqlx.DB
}

// NewReviewAdapter creates a new PostgreSQL review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
		x:      sqlx.NewDb(client.DB(), "postgres"),
	}
}

// Create inserts a review
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	review.CreatedAt = now
	review.UpdatedAt = now

	record := goqu.Record{
		"id":           review.ID,
		"booking_id":   review.BookingID,
		"mechanic_id":  review.MechanicID,
		"customer_id":  review.CustomerID,
		"rating":       review.Rating,
		"comment":      review.Comment,
		"is_published": review.IsPublished,
		"created_at":   now,
		"updated_at":   now,
	}

	query, args, err := a.db.Insert("reviews").Rows(record).Prepared(true).ToSQL()
	if err != nil {
		return classify(ctx, "failed to build review insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return classify(ctx, "failed to create review", err)
	}
	return nil
}

// Update changes rating, comment and publication status
func (a *ReviewAdapter) Update(ctx context.Context, review *entities.Review) error {
	review.UpdatedAt = time.Now().UTC()

	query, args, err := a.db.Update("reviews").
		Set(goqu.Record{
			"rating":       review.Rating,
			"comment":      review.Comment,
			"is_published": review.IsPublished,
			"updated_at":   review.UpdatedAt,
		}).
		Where(goqu.Ex{"id": review.ID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return classify(ctx, "failed to build review update query", err)
	}

	res, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return classify(ctx, "failed to update review", err)
	}
	return requireAffected(ctx, res, "review not found", "failed to update review")
}

// Delete removes a review
func (a *ReviewAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("reviews").Where(goqu.Ex{"id": id}).Prepared(true).ToSQL()
	if err != nil {
		return classify(ctx, "failed to build review delete query", err)
	}

	res, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return classify(ctx, "failed to delete review", err)
	}
	return requireAffected(ctx, res, "review not found", "failed to delete review")
}

// GetRatingSummary reads the aggregate stored on the mechanic row
func (a *ReviewAdapter) GetRatingSummary(ctx context.Context, mechanicID string) (*entities.RatingSummary, error) {
	query, args, err := a.db.From("mechanics").
		Select(goqu.C("id").As("mechanic_id"), "rating", "review_count").
		Where(goqu.Ex{"id": mechanicID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, classify(ctx, "failed to build rating query", err)
	}

	var summary struct {
		MechanicID  string  `db:"mechanic_id"`
		Rating      float64 `db:"rating"`
		ReviewCount int     `db:"review_count"`
	}
	if err := a.x.GetContext(ctx, &summary, query, args...); err != nil {
		return nil, notFoundOr(ctx, "mechanic not found", "failed to get rating summary", err)
	}

	return &entities.RatingSummary{
		MechanicID:  summary.MechanicID,
		Rating:      summary.Rating,
		ReviewCount: summary.ReviewCount,
	}, nil
}
