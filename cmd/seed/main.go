// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the admin account already exists.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"time"

	community "github.com/alumnihub/go-community"
	"github.com/alumnihub/go-community/config"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const (
	defaultAdminEmail    = "admin@alumnihub.dev"
	defaultAdminPassword = "admin123"
	samplePassword       = "password123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := sql.Open(sqliteshim.ShimName, cfg.GetPersistence().GetServer())
	if err != nil {
		log.Fatalf("open database: %v", err)
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

	client, err := persistence.New(cfg.GetPersistence(), db, sqlitedialect.New())
	if err != nil {
		log.Fatalf("persistence: %v", err)
	}

	migrationsFS, err := fs.Sub(community.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		log.Fatalf("migrations: %v", err)
	}
	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)
	if err := client.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	repo := community.NewRepositoryManager(client.DB())
	if err := repo.Validate(); err != nil {
		log.Fatalf("repository: %v", err)
	}

	adminEmail := cfg.AdminEmail
	if adminEmail == "" {
		adminEmail = defaultAdminEmail
	}
	adminPassword := cfg.AdminPassword
	if adminPassword == "" {
		adminPassword = defaultAdminPassword
	}

	if _, err := repo.Users().GetByEmail(ctx, adminEmail); err == nil {
		log.Printf("admin %s already exists, nothing to do", adminEmail)
		return
	}

	admin, err := createUser(ctx, repo, &community.User{
		Role:           community.RoleAdmin,
		FirstName:      "Admin",
		LastName:       "User",
		Email:          adminEmail,
		Bio:            "System Administrator",
		CurrentCompany: "Alumni Hub",
		CurrentRole:    "Administrator",
		GraduationYear: 2010,
		Degree:         "MBA",
		EmailVerified:  true,
	}, adminPassword)
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	members := []*community.User{
		{
			FirstName:             "Sarah",
			LastName:              "Johnson",
			Email:                 "sarah.johnson@example.com",
			Bio:                   "Researcher and entrepreneur with 15+ years in technology and venture capital.",
			CurrentCompany:        "TechVentures Capital",
			CurrentRole:           "Managing Partner",
			GraduationYear:        2008,
			Degree:                "MBA",
			Industry:              "Venture Capital",
			Location:              "San Francisco, CA",
			Expertise:             []string{"Machine Learning", "Computer Vision", "Natural Language Processing"},
			YearsOfExperience:     15,
			AvailableForMentoring: true,
			InterestedInStartups:  true,
			LinkedinURL:           "https://linkedin.com/in/sarahjohnson",
		},
		{
			FirstName:             "Michael",
			LastName:              "Chen",
			Email:                 "michael.chen@example.com",
			Bio:                   "Serial entrepreneur with three successful startup exits.",
			CurrentCompany:        "AI Innovations Inc",
			CurrentRole:           "CEO & Founder",
			GraduationYear:        2012,
			Degree:                "MBA",
			Industry:              "Technology",
			Location:              "New York, NY",
			Expertise:             []string{"Deep Learning", "Robotics", "AI Strategy"},
			YearsOfExperience:     12,
			AvailableForMentoring: true,
			InterestedInStartups:  true,
			LinkedinURL:           "https://linkedin.com/in/michaelchen",
		},
		{
			FirstName:             "Priya",
			LastName:              "Patel",
			Email:                 "priya.patel@example.com",
			Bio:                   "PhD in Computer Science leading AI initiatives at a Fortune 500 company.",
			CurrentCompany:        "DataCorp Technologies",
			CurrentRole:           "Head of AI Research",
			GraduationYear:        2015,
			Degree:                "MBA",
			Industry:              "Technology",
			Location:              "Seattle, WA",
			Expertise:             []string{"Data Science", "Machine Learning", "AI Ethics"},
			YearsOfExperience:     9,
			AvailableForMentoring: true,
			InterestedInStartups:  false,
			LinkedinURL:           "https://linkedin.com/in/priyapatel",
		},
	}

	mentors := make([]*community.User, 0, len(members))
	for _, m := range members {
		user, err := createUser(ctx, repo, m, samplePassword)
		if err != nil {
			log.Fatalf("seed member %s: %v", m.Email, err)
		}
		mentors = append(mentors, user)
	}

	events := []*community.Event{
		{
			Title:        "AI in Healthcare: Future Trends and Applications",
			Description:  "A discussion on how AI is transforming healthcare, from diagnostic tools to personalized medicine.",
			Content:      "Leading experts in AI and healthcare discuss the latest innovations and future possibilities.",
			StartDate:    time.Now().AddDate(0, 0, 14),
			Location:     "San Francisco Campus",
			MaxAttendees: 50,
			Status:       community.EventStatusPublished,
		},
		{
			Title:        "Machine Learning for Finance: Virtual Workshop",
			Description:  "Hands-on virtual workshop on ML in financial services.",
			Content:      "Interactive workshop covering ML applications in trading, risk management, and fraud detection.",
			StartDate:    time.Now().AddDate(0, 0, 21),
			IsVirtual:    true,
			MeetingURL:   "https://zoom.us/j/123456789",
			MaxAttendees: 100,
			Status:       community.EventStatusPublished,
		},
		{
			Title:        "Startup Pitch Night",
			Description:  "Promising startups pitch their solutions to a panel of expert judges and investors.",
			Content:      "An evening of startup presentations followed by networking and Q&A.",
			StartDate:    time.Now().AddDate(0, 1, 5),
			Location:     "Philadelphia Convention Center",
			MaxAttendees: 200,
			Status:       community.EventStatusPublished,
		},
	}
	for _, ev := range events {
		ev.CreatedByID = admin.ID
		if _, err := repo.Events().Create(ctx, ev); err != nil {
			log.Fatalf("seed event %q: %v", ev.Title, err)
		}
	}

	startups := []*community.Startup{
		{
			Name:         "MedAI Solutions",
			Description:  "AI-powered diagnostic tools for early disease detection.",
			Website:      "https://medaisolutions.example.com",
			Industry:     "Healthcare Technology",
			Stage:        community.StageSeed,
			FoundedYear:  2023,
			Location:     "Boston, MA",
			TeamSize:     "5-10",
			Technologies: []string{"Computer Vision", "Deep Learning", "Medical Imaging"},
			Status:       community.StartupStatusActive,
		},
		{
			Name:         "FinanceBot Pro",
			Description:  "Automation platform for financial advisory services.",
			Website:      "https://financebotpro.example.com",
			Industry:     "Financial Technology",
			Stage:        community.StagePreSeed,
			FoundedYear:  2024,
			Location:     "New York, NY",
			TeamSize:     "3-5",
			Technologies: []string{"Natural Language Processing", "Machine Learning", "Chatbots"},
			Status:       community.StartupStatusActive,
		},
		{
			Name:         "EcoPredict Analytics",
			Description:  "Environmental monitoring and prediction from satellite imagery.",
			Website:      "https://ecopredict.example.com",
			Industry:     "Environmental Technology",
			Stage:        community.StageSeriesA,
			FoundedYear:  2021,
			Location:     "San Francisco, CA",
			TeamSize:     "15-20",
			Technologies: []string{"Satellite Imagery", "Time Series Analysis"},
			Status:       community.StartupStatusActive,
		},
	}
	for _, s := range startups {
		if _, err := repo.Startups().Create(ctx, s); err != nil {
			log.Fatalf("seed startup %q: %v", s.Name, err)
		}
	}

	for i := 0; i < len(mentors) && i < 2; i++ {
		mentor := mentors[i]
		m := &community.Mentorship{
			MentorID:    mentor.ID,
			Title:       fmt.Sprintf("%s %s - Expertise & Startup Guidance", mentor.FirstName, mentor.LastName),
			Description: "Mentorship in AI technologies, startup strategy, and career development.",
			Expertise:   []string{"Machine Learning", "Startup Strategy", "Product Development"},
			MaxMentees:  5,
			IsActive:    true,
		}
		if _, err := repo.Mentorships().Create(ctx, m); err != nil {
			log.Fatalf("seed mentorship for %s: %v", mentor.Email, err)
		}
	}

	partners := []*community.Partner{
		{
			Name:        "Stanford AI Institute",
			Description: "Research institution focused on artificial intelligence and machine learning.",
			Website:     "https://ai.stanford.edu",
			IsActive:    true,
		},
		{
			Name:        "Y Combinator",
			Description: "Startup accelerator that has funded over 3000 companies.",
			Website:     "https://ycombinator.com",
			IsActive:    true,
		},
		{
			Name:        "NVIDIA",
			Description: "AI computing company providing hardware and software platforms for AI development.",
			Website:     "https://nvidia.com",
			IsActive:    true,
		},
	}
	for _, p := range partners {
		if _, err := repo.Partners().Create(ctx, p); err != nil {
			log.Fatalf("seed partner %q: %v", p.Name, err)
		}
	}

	log.Printf("seeded %d users, %d events, %d startups, %d partners", len(members)+1, len(events), len(startups), len(partners))
	log.Printf("admin credentials: %s / %s", adminEmail, adminPassword)
}

func createUser(ctx context.Context, repo community.RepositoryManager, user *community.User, password string) (*community.User, error) {
	hash, err := community.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	return repo.Users().Create(ctx, user)
}
