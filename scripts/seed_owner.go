package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/folio/adapters/persistence"
	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/auth"
	"github.com/khoahotran/folio/pkg/logger"
)

// Seeds a demo portfolio for OWNER_USER_ID (or a fresh id) and prints a
// dashboard token signed with the local JWT secret.
func main() {
	fmt.Println("seeding demo profile...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	ownerID := uuid.New()
	if raw := os.Getenv("OWNER_USER_ID"); raw != "" {
		if ownerID, err = uuid.Parse(raw); err != nil {
			log.Fatalf("OWNER_USER_ID is not a uuid: %v", err)
		}
	}
	email := os.Getenv("OWNER_EMAIL")
	if email == "" {
		email = "johndoe@example.com"
	}
	username := os.Getenv("OWNER_USERNAME")
	if username == "" {
		username = "johndoe"
	}

	ctx := context.Background()
	pool, err := persistence.NewPostgresPool(ctx, cfg, logger.NewNopLogger())
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	repo := persistence.NewPostgresProfileRepo(pool, logger.NewNopLogger())

	p := profile.New(ownerID, profile.NormalizeUsername(username), time.Now().UTC())
	p.DisplayName = "John Doe"
	p.Bio = "Backend engineer who likes small, boring, reliable services."
	p.TemplateID = "developer"
	p.Links = []profile.Link{{Label: "GitHub", URL: "https://github.com/johndoe", Icon: "github"}}
	p.Experience = []profile.Experience{{Company: "Acme", Role: "Software Engineer", Location: "Jakarta", StartDate: "2021-03", Current: true}}
	p.Education = []profile.Education{{Institution: "Universitas Indonesia", Degree: "B.Sc.", Field: "Computer Science", StartDate: "2016", EndDate: "2020"}}
	p.Skills = []profile.Skill{{Name: "Go", Proficiency: 5, Category: "languages"}, {Name: "PostgreSQL", Proficiency: 4, Category: "databases"}}
	p.Projects = []profile.Project{{Title: "folio", Description: "Localized portfolio pages", Technologies: []string{"Go", "gin"}, URL: "https://github.com/johndoe/folio"}}
	p.Contact = profile.ContactInfo{Email: email, Telegram: "@johndoe"}

	if err := p.Validate(); err != nil {
		log.Fatalf("invalid demo profile: %v", err)
	}
	if err := repo.Create(ctx, p); err != nil {
		if !errors.Is(err, apperror.ErrConflict) {
			log.Fatalf("cannot add profile: %v", err)
		}
		fmt.Printf("profile '%s' already exists, skipping insert\n", p.Username)
	} else {
		fmt.Printf("added profile '%s' for user %s\n", p.Username, ownerID)
	}

	if cfg.Auth.JWTSecret == "" {
		fmt.Println("SUPABASE_JWT_SECRET not set, no dashboard token issued")
		return
	}
	token, err := auth.NewJWTService(cfg.Auth.JWTSecret, 24*time.Hour).GenerateToken(ownerID, email)
	if err != nil {
		log.Fatalf("cannot sign token: %v", err)
	}
	fmt.Printf("dashboard token (24h):\n%s\n", token)
}
