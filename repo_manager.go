package community

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
	Events() Events
	Mentorships() Mentorships
	Startups() Startups
	Partners() Partners
	Newsletter() NewsletterSubscriptions
}

type mngr struct {
	db          *bun.DB
	users       Users
	events      Events
	mentorships Mentorships
	startups    Startups
	partners    Partners
	newsletter  NewsletterSubscriptions
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:          db,
		users:       NewUsersRepository(db),
		events:      NewEventsRepository(db),
		mentorships: NewMentorshipsRepository(db),
		startups:    NewStartupsRepository(db),
		partners:    NewPartnersRepository(db),
		newsletter:  NewNewsletterRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.events == nil {
		return errors.New("repository events should be initialized")
	}

	if m.mentorships == nil {
		return errors.New("repository mentorships should be initialized")
	}

	if m.startups == nil {
		return errors.New("repository startups should be initialized")
	}

	if m.partners == nil {
		return errors.New("repository partners should be initialized")
	}

	if m.newsletter == nil {
		return errors.New("repository newsletter should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Events() Events {
	return m.events
}

func (m mngr) Mentorships() Mentorships {
	return m.mentorships
}

func (m mngr) Startups() Startups {
	return m.startups
}

func (m mngr) Partners() Partners {
	return m.partners
}

func (m mngr) Newsletter() NewsletterSubscriptions {
	return m.newsletter
}
