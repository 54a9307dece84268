package community

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// EventFilter narrows the public event listing.
type EventFilter struct {
	Status   EventStatus
	Upcoming bool
}

// Events is the event store plus registration bookkeeping.
type Events interface {
	repository.Repository[*Event]

	ListFiltered(ctx context.Context, filter EventFilter, pager Pager) ([]*Event, int, error)
	GetWithRegistrations(ctx context.Context, id uuid.UUID) (*Event, error)
	CountRegistrations(ctx context.Context, eventID uuid.UUID) (int, error)
	CountRegistrationsTx(ctx context.Context, tx bun.IDB, eventID uuid.UUID) (int, error)
	GetRegistration(ctx context.Context, eventID, userID uuid.UUID) (*EventRegistration, error)
	ListRegistrationsForUser(ctx context.Context, userID uuid.UUID) ([]*EventRegistration, error)
	CreateRegistrationTx(ctx context.Context, tx bun.IDB, reg *EventRegistration) (*EventRegistration, error)
	DeleteRegistration(ctx context.Context, eventID, userID uuid.UUID) error
}

type events struct {
	repository.Repository[*Event]
	db *bun.DB
}

var _ Events = (*events)(nil)

func NewEventsRepository(db *bun.DB) Events {
	repo := repository.NewRepository[*Event](db, repository.ModelHandlers[*Event]{
		NewRecord: func() *Event { return &Event{} },
		GetID: func(e *Event) uuid.UUID {
			if e == nil {
				return uuid.Nil
			}
			return e.ID
		},
		SetID: func(e *Event, id uuid.UUID) {
			if e != nil {
				e.ID = id
			}
		},
	})

	return &events{
		Repository: repo,
		db:         db,
	}
}

func (r *events) ListFiltered(ctx context.Context, filter EventFilter, pager Pager) ([]*Event, int, error) {
	records := []*Event{}

	status := filter.Status
	if status == "" {
		status = EventStatusPublished
	}

	q := r.db.NewSelect().
		Model(&records).
		Relation("CreatedBy").
		ColumnExpr("?TableAlias.*").
		ColumnExpr("(SELECT COUNT(*) FROM event_registrations AS evr WHERE evr.event_id = ?TableAlias.id) AS registration_count").
		Where("?TableAlias.status = ?", status)

	order := "start_date DESC"
	if filter.Upcoming {
		q.Where("?TableAlias.start_date >= ?", time.Now())
		order = "start_date ASC"
	}

	total, err := q.
		Order(order).
		Limit(pager.Limit).
		Offset(pager.Offset()).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *events) GetWithRegistrations(ctx context.Context, id uuid.UUID) (*Event, error) {
	record := &Event{}
	err := r.db.NewSelect().
		Model(record).
		Relation("CreatedBy").
		Relation("Registrations").
		Relation("Registrations.User").
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

	record.RegistrationCount = len(record.Registrations)

	return record, nil
}

func (r *events) CountRegistrations(ctx context.Context, eventID uuid.UUID) (int, error) {
	return r.CountRegistrationsTx(ctx, r.db, eventID)
}

func (r *events) CountRegistrationsTx(ctx context.Context, tx bun.IDB, eventID uuid.UUID) (int, error) {
	return tx.NewSelect().
		Model((*EventRegistration)(nil)).
		Where("?TableAlias.event_id = ?", eventID).
		Count(ctx)
}

func (r *events) GetRegistration(ctx context.Context, eventID, userID uuid.UUID) (*EventRegistration, error) {
	record := &EventRegistration{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.event_id = ?", eventID).
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"event_id": eventID.String(),
					"user_id":  userID.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *events) ListRegistrationsForUser(ctx context.Context, userID uuid.UUID) ([]*EventRegistration, error) {
	records := []*EventRegistration{}
	err := r.db.NewSelect().
		Model(&records).
		Relation("Event").
		Where("?TableAlias.user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *events) CreateRegistrationTx(ctx context.Context, tx bun.IDB, reg *EventRegistration) (*EventRegistration, error) {
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}

	if _, err := tx.NewInsert().Model(reg).Exec(ctx); err != nil {
		return nil, err
	}

	return reg, nil
}

func (r *events) DeleteRegistration(ctx context.Context, eventID, userID uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*EventRegistration)(nil)).
		Where("?TableAlias.event_id = ?", eventID).
		Where("?TableAlias.user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"event_id": eventID.String(),
				"user_id":  userID.String(),
			})
	}

	return nil
}
