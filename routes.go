package community

import (
	"github.com/goliatone/go-router"
)

// Controllers bundles the HTTP controllers the application serves.
type Controllers struct {
	Auth        *AuthController
	Users       *UsersController
	Events      *EventsController
	Mentorships *MentorshipsController
	Startups    *StartupsController
	Partners    *PartnersController
	Newsletter  *NewsletterController
}

// NewControllers wires the full controller set against a repository
// manager and authenticator.
func NewControllers(repo RepositoryManager, auther *Auther, cfg Config, notifier Notifier) Controllers {
	return Controllers{
		Auth:        NewAuthController(repo, auther, cfg).WithNotifier(notifier),
		Users:       NewUsersController(repo, cfg),
		Events:      NewEventsController(repo, cfg).WithNotifier(notifier),
		Mentorships: NewMentorshipsController(repo, cfg),
		Startups:    NewStartupsController(repo, cfg),
		Partners:    NewPartnersController(repo),
		Newsletter:  NewNewsletterController(repo, cfg),
	}
}

// RegisterRoutes mounts the whole API surface on the given router.
// Admin routes chain RequireAuth then RequireRole(admin); member
// routes chain RequireAuth only; everything else is public.
func RegisterRoutes[T any](app router.Router[T], c Controllers, auther *Auther, cfg Config) {
	key := cfg.GetContextKey()
	authed := RequireAuth(auther, key)
	admin := RequireRole(key, RoleAdmin)

	// auth
	app.Post("/auth/register", c.Auth.Register).SetName("auth.register")
	app.Post("/auth/login", c.Auth.Login).SetName("auth.login")
	app.Get("/auth/me", c.Auth.Me, authed).SetName("auth.me")
	app.Post("/auth/forgot-password", c.Auth.ForgotPassword).SetName("auth.forgot_password")
	app.Post("/auth/reset-password", c.Auth.ResetPassword).SetName("auth.reset_password")
	app.Post("/auth/logout", c.Auth.Logout, authed).SetName("auth.logout")

	// users directory
	app.Get("/users", c.Users.List).SetName("users.list")
	app.Put("/users/me", c.Users.UpdateMe, authed).SetName("users.update_me")
	app.Get("/users/me/events", c.Users.MyEvents, authed).SetName("users.my_events")
	app.Get("/users/me/mentorships", c.Users.MyMentorships, authed).SetName("users.my_mentorships")
	app.Get("/users/:id", c.Users.Get).SetName("users.get")

	// events
	app.Get("/events", c.Events.List).SetName("events.list")
	app.Post("/events", c.Events.Create, authed, admin).SetName("events.create")
	app.Get("/events/:id", c.Events.Get).SetName("events.get")
	app.Put("/events/:id", c.Events.Update, authed, admin).SetName("events.update")
	app.Delete("/events/:id", c.Events.Delete, authed, admin).SetName("events.delete")
	app.Post("/events/:id/register", c.Events.Register, authed).SetName("events.register")
	app.Delete("/events/:id/register", c.Events.Unregister, authed).SetName("events.unregister")

	// mentorships
	app.Get("/mentorships", c.Mentorships.List).SetName("mentorships.list")
	app.Post("/mentorships", c.Mentorships.Create, authed).SetName("mentorships.create")
	app.Put("/mentorships/requests/:id", c.Mentorships.UpdateRequest, authed).SetName("mentorships.requests.update")
	app.Get("/mentorships/:id", c.Mentorships.Get).SetName("mentorships.get")
	app.Put("/mentorships/:id", c.Mentorships.Update, authed).SetName("mentorships.update")
	app.Delete("/mentorships/:id", c.Mentorships.Delete, authed).SetName("mentorships.delete")
	app.Post("/mentorships/:id/request", c.Mentorships.Request, authed).SetName("mentorships.request")

	// startups
	app.Get("/startups", c.Startups.List).SetName("startups.list")
	app.Post("/startups", c.Startups.Create, authed, admin).SetName("startups.create")
	app.Get("/startups/me/applications", c.Startups.MyApplications, authed).SetName("startups.my_applications")
	app.Put("/startups/applications/:id", c.Startups.UpdateApplication, authed, admin).SetName("startups.applications.update")
	app.Get("/startups/:id", c.Startups.Get).SetName("startups.get")
	app.Put("/startups/:id", c.Startups.Update, authed, admin).SetName("startups.update")
	app.Delete("/startups/:id", c.Startups.Delete, authed, admin).SetName("startups.delete")
	app.Post("/startups/:id/apply", c.Startups.Apply, authed).SetName("startups.apply")

	// partners
	app.Get("/partners", c.Partners.List).SetName("partners.list")
	app.Post("/partners", c.Partners.Create, authed, admin).SetName("partners.create")
	app.Get("/partners/:id", c.Partners.Get).SetName("partners.get")
	app.Put("/partners/:id", c.Partners.Update, authed, admin).SetName("partners.update")
	app.Delete("/partners/:id", c.Partners.Delete, authed, admin).SetName("partners.delete")

	// newsletter
	app.Post("/newsletter/subscribe", c.Newsletter.Subscribe).SetName("newsletter.subscribe")
	app.Post("/newsletter/unsubscribe", c.Newsletter.Unsubscribe).SetName("newsletter.unsubscribe")
	app.Get("/newsletter/subscriptions", c.Newsletter.Subscriptions, authed, admin).SetName("newsletter.subscriptions")
	app.Get("/newsletter/stats", c.Newsletter.Stats, authed, admin).SetName("newsletter.stats")
	app.Post("/newsletter/link-account", c.Newsletter.LinkAccount, authed).SetName("newsletter.link_account")
}
