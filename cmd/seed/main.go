package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"notably-backend/internal/models"
	"notably-backend/internal/storage"
)

type fixture struct {
	Tenants []tenantFixture `yaml:"tenants"`
}

type tenantFixture struct {
	Name  string        `yaml:"name"`
	Slug  string        `yaml:"slug"`
	Plan  string        `yaml:"plan"`
	Users []userFixture `yaml:"users"`
}

type userFixture struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	Plan     string `yaml:"plan"`
}

func main() {
	file := flag.String("file", "seed/seed.yaml", "seed fixture path")
	flag.Parse()

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read fixture: %v", err)
	}

	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		log.Fatalf("Failed to parse fixture: %v", err)
	}

	db, err := sqlx.Connect("postgres", buildDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	store := storage.NewStorage(db)
	ctx := context.Background()

	for _, tf := range fx.Tenants {
		if !models.ValidPlan(tf.Plan) {
			log.Fatalf("Tenant %s: invalid plan %q", tf.Slug, tf.Plan)
		}

		tenant, err := store.CreateTenant(ctx, tf.Name, tf.Slug, tf.Plan)
		if errors.Is(err, storage.ErrSlugTaken) {
			tenant, err = store.GetTenantBySlug(ctx, tf.Slug)
			if err != nil {
				log.Fatalf("Tenant %s: %v", tf.Slug, err)
			}
			log.Printf("Tenant %s already exists, reusing", tf.Slug)
		} else if err != nil {
			log.Fatalf("Tenant %s: %v", tf.Slug, err)
		} else {
			log.Printf("Created tenant %s", tf.Slug)
		}

		for _, uf := range tf.Users {
			if !models.ValidRole(uf.Role) || !models.ValidPlan(uf.Plan) {
				log.Fatalf("User %s: invalid role %q or plan %q", uf.Email, uf.Role, uf.Plan)
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(uf.Password), bcrypt.DefaultCost)
			if err != nil {
				log.Fatalf("User %s: hash password: %v", uf.Email, err)
			}

			_, err = store.CreateUser(ctx, tenant.ID, uf.Email, string(hash), uf.Role, uf.Plan)
			if errors.Is(err, storage.ErrEmailTaken) {
				log.Printf("User %s already exists, skipping", uf.Email)
				continue
			}
			if err != nil {
				log.Fatalf("User %s: %v", uf.Email, err)
			}
			log.Printf("Created user %s (%s/%s)", uf.Email, uf.Role, uf.Plan)
		}
	}

	log.Println("Seed completed")
}

func buildDSN() string {
	return "host=" + getEnv("DB_HOST", "localhost") +
		" user=" + getEnv("DB_USER", "notably_user") +
		" password=" + getEnv("DB_PASSWORD", "notably_pass") +
		" dbname=" + getEnv("DB_NAME", "notably") +
		" sslmode=disable"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
