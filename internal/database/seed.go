package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// seedCategory describes one starter taxonomy node.
type seedCategory struct {
	name, slug, description, icon string
	children                      []seedCategory
}

var starterCategories = []seedCategory{
	{
		name: "Technology", slug: "technology", description: "All things tech.", icon: "Cpu",
		children: []seedCategory{
			{name: "Web Development", slug: "web-development", description: "Frontend and Backend.", icon: "Code"},
			{name: "AI & Machine Learning", slug: "ai-ml", description: "Artificial Intelligence.", icon: "Bot"},
			{name: "Cybersecurity", slug: "cybersecurity", description: "Security news.", icon: "Shield"},
		},
	},
	{
		name: "Business", slug: "business", description: "Business insights.", icon: "Briefcase",
		children: []seedCategory{
			{name: "Startups", slug: "startups", description: "Startup culture.", icon: "Rocket"},
			{name: "Marketing", slug: "marketing", description: "Growth hacking.", icon: "Megaphone"},
		},
	},
	{
		name: "Lifestyle", slug: "lifestyle", description: "Living your best life.", icon: "Coffee",
		children: []seedCategory{
			{name: "Health", slug: "health", description: "Wellness and fitness.", icon: "Heart"},
			{name: "Travel", slug: "travel", description: "World exploration.", icon: "Plane"},
		},
	},
}

// Seed populates the database with initial development data: a default
// admin user (prompted to set up 2FA on first login) and a starter
// category tree. It is a no-op when data already exists.
func Seed(db *sql.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedCategories(db)
}

func seedAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin@pressfolio.local", string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@pressfolio.local",
		"password", "admin",
	)
	return nil
}

func seedCategories(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, root := range starterCategories {
		var parentID string
		err := db.QueryRow(`
			INSERT INTO categories (name, slug, description, icon)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, root.name, root.slug, root.description, root.icon).Scan(&parentID)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", root.slug, err)
		}

		for _, child := range root.children {
			_, err := db.Exec(`
				INSERT INTO categories (name, slug, description, icon, parent_id)
				VALUES ($1, $2, $3, $4, $5)
			`, child.name, child.slug, child.description, child.icon, parentID)
			if err != nil {
				return fmt.Errorf("seed category %q: %w", child.slug, err)
			}
		}
	}

	slog.Info("database seeded with starter categories", "roots", len(starterCategories))
	return nil
}
