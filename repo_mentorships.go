package community

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// MentorshipFilter narrows the public mentorship listing.
type MentorshipFilter struct {
	Expertise string
}

// Mentorships is the mentorship offering store plus request handling.
type Mentorships interface {
	repository.Repository[*Mentorship]

	ListFiltered(ctx context.Context, filter MentorshipFilter, pager Pager) ([]*Mentorship, int, error)
	GetWithMentor(ctx context.Context, id uuid.UUID) (*Mentorship, error)
	ListByMentor(ctx context.Context, mentorID uuid.UUID) ([]*Mentorship, error)
	ListRequestsByMentee(ctx context.Context, menteeID uuid.UUID) ([]*MentorshipRequest, error)
	CountAccepted(ctx context.Context, mentorshipID uuid.UUID) (int, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*MentorshipRequest, error)
	GetRequestByMentee(ctx context.Context, mentorshipID, menteeID uuid.UUID) (*MentorshipRequest, error)
	CreateRequestTx(ctx context.Context, tx bun.IDB, req *MentorshipRequest) (*MentorshipRequest, error)
	UpdateRequestStatus(ctx context.Context, req *MentorshipRequest) (*MentorshipRequest, error)
}

type mentorships struct {
	repository.Repository[*Mentorship]
	db *bun.DB
}

var _ Mentorships = (*mentorships)(nil)

func NewMentorshipsRepository(db *bun.DB) Mentorships {
	repo := repository.NewRepository[*Mentorship](db, repository.ModelHandlers[*Mentorship]{
		NewRecord: func() *Mentorship { return &Mentorship{} },
		GetID: func(m *Mentorship) uuid.UUID {
			if m == nil {
				return uuid.Nil
			}
			return m.ID
		},
		SetID: func(m *Mentorship, id uuid.UUID) {
			if m != nil {
				m.ID = id
			}
		},
	})

	return &mentorships{
		Repository: repo,
		db:         db,
	}
}

func (r *mentorships) ListFiltered(ctx context.Context, filter MentorshipFilter, pager Pager) ([]*Mentorship, int, error) {
	records := []*Mentorship{}

	q := r.db.NewSelect().
		Model(&records).
		Relation("Mentor").
		ColumnExpr("?TableAlias.*").
		ColumnExpr("(SELECT COUNT(*) FROM mentorship_requests AS mrq WHERE mrq.mentorship_id = ?TableAlias.id AND mrq.status = ?) AS accepted_count", RequestStatusAccepted).
		Where("?TableAlias.is_active = ?", true)

	if filter.Expertise != "" {
		// expertise is a JSON array; match on the serialized form
		q.Where("?TableAlias.expertise LIKE ?", "%\""+filter.Expertise+"\"%")
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

func (r *mentorships) GetWithMentor(ctx context.Context, id uuid.UUID) (*Mentorship, error) {
	record := &Mentorship{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Mentor").
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

	count, err := r.CountAccepted(ctx, id)
	if err != nil {
		return nil, err
	}
	record.AcceptedCount = count

	return record, nil
}

// ListByMentor returns a mentor's own offerings with their requests,
// active or not.
func (r *mentorships) ListByMentor(ctx context.Context, mentorID uuid.UUID) ([]*Mentorship, error) {
	records := []*Mentorship{}
	err := r.db.NewSelect().
		Model(&records).
		Relation("Requests").
		Relation("Requests.Mentee").
		Where("?TableAlias.mentor_id = ?", mentorID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// ListRequestsByMentee returns the requests a user has filed, with the
// offering and its mentor attached.
func (r *mentorships) ListRequestsByMentee(ctx context.Context, menteeID uuid.UUID) ([]*MentorshipRequest, error) {
	records := []*MentorshipRequest{}
	err := r.db.NewSelect().
		Model(&records).
		Relation("Mentorship").
		Relation("Mentorship.Mentor").
		Where("?TableAlias.mentee_id = ?", menteeID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *mentorships) CountAccepted(ctx context.Context, mentorshipID uuid.UUID) (int, error) {
	return r.db.NewSelect().
		Model((*MentorshipRequest)(nil)).
		Where("?TableAlias.mentorship_id = ?", mentorshipID).
		Where("?TableAlias.status = ?", RequestStatusAccepted).
		Count(ctx)
}

func (r *mentorships) GetRequest(ctx context.Context, id uuid.UUID) (*MentorshipRequest, error) {
	record := &MentorshipRequest{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Mentorship").
		Relation("Mentee").
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

func (r *mentorships) GetRequestByMentee(ctx context.Context, mentorshipID, menteeID uuid.UUID) (*MentorshipRequest, error) {
	record := &MentorshipRequest{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.mentorship_id = ?", mentorshipID).
		Where("?TableAlias.mentee_id = ?", menteeID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"mentorship_id": mentorshipID.String(),
					"mentee_id":     menteeID.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *mentorships) CreateRequestTx(ctx context.Context, tx bun.IDB, req *MentorshipRequest) (*MentorshipRequest, error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Status == "" {
		req.Status = RequestStatusPending
	}

	if _, err := tx.NewInsert().Model(req).Exec(ctx); err != nil {
		return nil, err
	}

	return req, nil
}

func (r *mentorships) UpdateRequestStatus(ctx context.Context, req *MentorshipRequest) (*MentorshipRequest, error) {
	_, err := r.db.NewUpdate().
		Model(req).
		Column("status", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return req, nil
}
