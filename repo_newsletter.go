package community

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewsletterSubscriptions is the newsletter opt-in store.
type NewsletterSubscriptions interface {
	repository.Repository[*NewsletterSubscription]

	GetByEmail(ctx context.Context, email string) (*NewsletterSubscription, error)
	SetActive(ctx context.Context, email string, active bool) error
	LinkUser(ctx context.Context, email string, userID uuid.UUID) error
	ListFiltered(ctx context.Context, active bool, pager Pager) ([]*NewsletterSubscription, int, error)
	Stats(ctx context.Context) (*NewsletterStats, error)
}

type newsletterSubscriptions struct {
	repository.Repository[*NewsletterSubscription]
	db *bun.DB
}

var _ NewsletterSubscriptions = (*newsletterSubscriptions)(nil)

func NewNewsletterRepository(db *bun.DB) NewsletterSubscriptions {
	repo := repository.NewRepository[*NewsletterSubscription](db, repository.ModelHandlers[*NewsletterSubscription]{
		NewRecord: func() *NewsletterSubscription { return &NewsletterSubscription{} },
		GetID: func(n *NewsletterSubscription) uuid.UUID {
			if n == nil {
				return uuid.Nil
			}
			return n.ID
		},
		SetID: func(n *NewsletterSubscription, id uuid.UUID) {
			if n != nil {
				n.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &newsletterSubscriptions{
		Repository: repo,
		db:         db,
	}
}

func (r *newsletterSubscriptions) GetByEmail(ctx context.Context, email string) (*NewsletterSubscription, error) {
	record := &NewsletterSubscription{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", NormalizeEmail(email)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"email": NormalizeEmail(email)})
		}
		return nil, err
	}

	return record, nil
}

func (r *newsletterSubscriptions) SetActive(ctx context.Context, email string, active bool) error {
	res, err := r.db.NewUpdate().
		Model((*NewsletterSubscription)(nil)).
		Set("is_active = ?", active).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("?TableAlias.email = ?", NormalizeEmail(email)).
		Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"email": NormalizeEmail(email)})
	}

	return nil
}

func (r *newsletterSubscriptions) LinkUser(ctx context.Context, email string, userID uuid.UUID) error {
	_, err := r.db.NewUpdate().
		Model((*NewsletterSubscription)(nil)).
		Set("user_id = ?", userID).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("?TableAlias.email = ?", NormalizeEmail(email)).
		Where("?TableAlias.user_id IS NULL").
		Exec(ctx)

	return err
}

func (r *newsletterSubscriptions) ListFiltered(ctx context.Context, active bool, pager Pager) ([]*NewsletterSubscription, int, error) {
	records := []*NewsletterSubscription{}

	total, err := r.db.NewSelect().
		Model(&records).
		Relation("User").
		Where("?TableAlias.is_active = ?", active).
		Order("created_at DESC").
		Limit(pager.Limit).
		Offset(pager.Offset()).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *newsletterSubscriptions) Stats(ctx context.Context) (*NewsletterStats, error) {
	stats := &NewsletterStats{}

	var err error
	if stats.ActiveSubscriptions, err = r.db.NewSelect().
		Model((*NewsletterSubscription)(nil)).
		Where("?TableAlias.is_active = ?", true).
		Count(ctx); err != nil {
		return nil, err
	}

	if stats.TotalSubscriptions, err = r.db.NewSelect().
		Model((*NewsletterSubscription)(nil)).
		Count(ctx); err != nil {
		return nil, err
	}

	if stats.UserSubscriptions, err = r.db.NewSelect().
		Model((*NewsletterSubscription)(nil)).
		Where("?TableAlias.user_id IS NOT NULL").
		Where("?TableAlias.is_active = ?", true).
		Count(ctx); err != nil {
		return nil, err
	}

	stats.GuestSubscriptions = stats.ActiveSubscriptions - stats.UserSubscriptions
	stats.UnsubscribedCount = stats.TotalSubscriptions - stats.ActiveSubscriptions

	return stats, nil
}
