package community

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Partners is the partner organization store.
type Partners interface {
	repository.Repository[*Partner]

	ListFiltered(ctx context.Context, active bool, pager Pager) ([]*Partner, int, error)
}

type partners struct {
	repository.Repository[*Partner]
	db *bun.DB
}

var _ Partners = (*partners)(nil)

func NewPartnersRepository(db *bun.DB) Partners {
	repo := repository.NewRepository[*Partner](db, repository.ModelHandlers[*Partner]{
		NewRecord: func() *Partner { return &Partner{} },
		GetID: func(p *Partner) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Partner, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
	})

	return &partners{
		Repository: repo,
		db:         db,
	}
}

func (r *partners) ListFiltered(ctx context.Context, active bool, pager Pager) ([]*Partner, int, error) {
	records := []*Partner{}

	total, err := r.db.NewSelect().
		Model(&records).
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
