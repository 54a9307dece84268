package main

import (
	"context"
	"database/sql"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	community "github.com/alumnihub/go-community"
	"github.com/alumnihub/go-community/config"
	"github.com/gofiber/fiber/v2"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config *config.Config
	bunDB  *bun.DB
	repo   community.RepositoryManager
	auther *community.Auther
	srv    router.Server[*fiber.App]
}

func (a *App) SetDB(db *bun.DB) {
	a.bunDB = db
}

func (a *App) SetRepository(repo community.RepositoryManager) {
	a.repo = repo
}

func (a *App) SetAuthenticator(auther *community.Auther) {
	a.auther = auther
}

func (a *App) SetHTTPServer(srv router.Server[*fiber.App]) {
	a.srv = srv
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	app := &App{config: cfg}

	if err := WithPersistence(ctx, app); err != nil {
		log.Fatal(err)
	}

	if err := WithAuth(ctx, app); err != nil {
		log.Fatal(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		log.Fatal(err)
	}

	app.srv.Serve(cfg.HTTPAddr)

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.config.GetPersistence().GetServer())
	if err != nil {
		return err
	}

	persistence.RegisterModel((*community.User)(nil))
	persistence.RegisterModel((*community.Event)(nil))
	persistence.RegisterModel((*community.EventRegistration)(nil))
	persistence.RegisterModel((*community.Mentorship)(nil))
	persistence.RegisterModel((*community.MentorshipRequest)(nil))
	persistence.RegisterModel((*community.Startup)(nil))
	persistence.RegisterModel((*community.StartupApplication)(nil))
	persistence.RegisterModel((*community.Partner)(nil))
	persistence.RegisterModel((*community.NewsletterSubscription)(nil))

	client, err := persistence.New(app.config.GetPersistence(), db, sqlitedialect.New())
	if err != nil {
		return err
	}

	migrationsFS, err := fs.Sub(community.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}
	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)
	if err := client.ValidateDialects(ctx); err != nil {
		return err
	}

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	client.RegisterFixtures(community.GetFixturesFS())

	if err := client.Seed(ctx); err != nil {
		return err
	}

	app.SetDB(client.DB())
	app.SetRepository(community.NewRepositoryManager(client.DB()))

	return nil
}

func WithAuth(ctx context.Context, app *App) error {
	if err := app.repo.Validate(); err != nil {
		return err
	}

	provider := community.NewUserProvider(
		community.NewUserTracker(app.repo.Users()),
	)

	auther := community.NewAuthenticator(provider, app.config).
		WithActivitySink(community.ActivitySinkFunc(func(ctx context.Context, event community.ActivityEvent) error {
			log.Printf("activity: %s user=%s", event.EventType, event.UserID)
			return nil
		}))

	app.SetAuthenticator(auther)

	return nil
}

func WithHTTPServer(ctx context.Context, app *App) error {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName:       "community-api",
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})

	notifier := community.NewLogNotifier(nil)

	controllers := community.NewControllers(app.repo, app.auther, app.config, notifier)
	community.RegisterRoutes(srv.Router(), controllers, app.auther, app.config)

	app.SetHTTPServer(srv)

	return nil
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
