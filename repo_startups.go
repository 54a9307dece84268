package community

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// StartupFilter narrows the startup listing.
type StartupFilter struct {
	Status   StartupStatus
	Industry string
	Stage    StartupStage
}

// Startups is the startup store plus application handling.
type Startups interface {
	repository.Repository[*Startup]

	ListFiltered(ctx context.Context, filter StartupFilter, pager Pager) ([]*Startup, int, error)
	GetWithApplications(ctx context.Context, id uuid.UUID) (*Startup, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*StartupApplication, error)
	GetApplicationByUser(ctx context.Context, startupID, userID uuid.UUID) (*StartupApplication, error)
	ListApplicationsByUser(ctx context.Context, userID uuid.UUID) ([]*StartupApplication, error)
	CreateApplicationTx(ctx context.Context, tx bun.IDB, app *StartupApplication) (*StartupApplication, error)
	UpdateApplicationStatus(ctx context.Context, app *StartupApplication) (*StartupApplication, error)
}

type startups struct {
	repository.Repository[*Startup]
	db *bun.DB
}

var _ Startups = (*startups)(nil)

func NewStartupsRepository(db *bun.DB) Startups {
	repo := repository.NewRepository[*Startup](db, repository.ModelHandlers[*Startup]{
		NewRecord: func() *Startup { return &Startup{} },
		GetID: func(s *Startup) uuid.UUID {
			if s == nil {
				return uuid.Nil
			}
			return s.ID
		},
		SetID: func(s *Startup, id uuid.UUID) {
			if s != nil {
				s.ID = id
			}
		},
	})

	return &startups{
		Repository: repo,
		db:         db,
	}
}

func (r *startups) ListFiltered(ctx context.Context, filter StartupFilter, pager Pager) ([]*Startup, int, error) {
	records := []*Startup{}

	status := filter.Status
	if status == "" {
		status = StartupStatusActive
	}

	q := r.db.NewSelect().
		Model(&records).
		ColumnExpr("?TableAlias.*").
		ColumnExpr("(SELECT COUNT(*) FROM startup_applications AS sta WHERE sta.startup_id = ?TableAlias.id) AS application_count").
		Where("?TableAlias.status = ?", status)

	if filter.Industry != "" {
		q.Where("LOWER(?TableAlias.industry) LIKE ?", "%"+strings.ToLower(filter.Industry)+"%")
	}

	if filter.Stage != "" {
		q.Where("?TableAlias.stage = ?", filter.Stage)
	}

	total, err := q.
		Order("created_at DESC").
		Limit(pager.Limit).
		Offset(pager.Offset()).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *startups) GetWithApplications(ctx context.Context, id uuid.UUID) (*Startup, error) {
	record := &Startup{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Applications").
		Relation("Applications.User").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	record.ApplicationCount = len(record.Applications)

	return record, nil
}

func (r *startups) GetApplication(ctx context.Context, id uuid.UUID) (*StartupApplication, error) {
	record := &StartupApplication{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Startup").
		Relation("User").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

func (r *startups) GetApplicationByUser(ctx context.Context, startupID, userID uuid.UUID) (*StartupApplication, error) {
	record := &StartupApplication{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.startup_id = ?", startupID).
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"startup_id": startupID.String(),
					"user_id":    userID.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *startups) ListApplicationsByUser(ctx context.Context, userID uuid.UUID) ([]*StartupApplication, error) {
	records := []*StartupApplication{}
	err := r.db.NewSelect().
		Model(&records).
		Relation("Startup").
		Where("?TableAlias.user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *startups) CreateApplicationTx(ctx context.Context, tx bun.IDB, app *StartupApplication) (*StartupApplication, error) {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	if app.Status == "" {
		app.Status = ApplicationStatusPending
	}

	if _, err := tx.NewInsert().Model(app).Exec(ctx); err != nil {
		return nil, err
	}

	return app, nil
}

func (r *startups) UpdateApplicationStatus(ctx context.Context, app *StartupApplication) (*StartupApplication, error) {
	_, err := r.db.NewUpdate().
		Model(app).
		Column("status", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return app, nil
}
