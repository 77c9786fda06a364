package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/ajisatria/go-blog-api/config"
	"github.com/ajisatria/go-blog-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@example.com"
	password := "admin123"
	username := "admin"
	hash, err := helpers.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, 'admin')
		ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username
		RETURNING id
	`, username, email, hash).Scan(&adminID)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", adminID, email, password)

	posts := []struct {
		title, content, tags string
	}{
		{"Hello World", "The first post on this blog, seeded for local development.", "{intro}"},
		{"Writing Posts", "Posts support tags, likes and comments out of the box.", "{intro,howto}"},
	}
	for _, p := range posts {
		slug := helpers.Slugify(p.title)
		var id string
		err = db.QueryRow(`
			INSERT INTO posts (title, slug, content, author_id, tags, published)
			VALUES ($1, $2, $3, $4, $5::text[], true)
			ON CONFLICT (slug) DO UPDATE SET updated_at = now()
			RETURNING id
		`, p.title, slug, p.content, adminID, p.tags).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed post %q: %v", p.title, err)
		}
		fmt.Printf("seeded post: id=%s slug=%s\n", id, slug)
	}
}
