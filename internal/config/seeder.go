package config

import (
	"context"
	"log"

	"cmcs-claims/internal/adapters/persistence/models"
	"cmcs-claims/internal/adapters/persistence/repositories"
	"cmcs-claims/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Seeder handles database seeding
type Seeder struct {
	users repositories.UserRepository
}

// NewSeeder creates a new seeder instance
func NewSeeder(users repositories.UserRepository) *Seeder {
	return &Seeder{users: users}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedDemoUsers(ctx); err != nil {
		log.Printf("⚠️ User seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedDemoUsers creates one account per role.
// This is for development/testing only; tokens are issued by the identity service.
func (s *Seeder) seedDemoUsers(ctx context.Context) error {
	rate := decimal.RequireFromString("350.00")

	users := []*models.User{
		{Username: "lecturer", Role: string(domain.RoleLecturer), FullName: "Demo Lecturer", Email: "lecturer@example.edu", HourlyRate: &rate},
		{Username: "manager1", Role: string(domain.RoleManager1), FullName: "Programme Coordinator", Email: "coordinator@example.edu"},
		{Username: "manager2", Role: string(domain.RoleManager2), FullName: "Academic Manager", Email: "academic.manager@example.edu"},
		{Username: "hr", Role: string(domain.RoleHR), FullName: "HR Office", Email: "hr@example.edu"},
	}

	for _, u := range users {
		exists, err := s.users.ExistsByUsername(ctx, u.Username)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		log.Printf("✅ Demo user created: %s (%s)", u.Username, u.Role)
	}
	return nil
}
