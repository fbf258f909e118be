// seed aplica las migraciones SQL y crea la cuenta superadmin inicial.
//
// Uso: go run ./cmd/seed
// Credenciales del superadmin vía SEED_ADMIN_EMAIL y SEED_ADMIN_PASSWORD
// (por defecto admin@localhost / cambiar-ya).
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
	"github.com/LaibaHameed12/ecom-backend/internal/infrastructure/postgres"
	"github.com/LaibaHameed12/ecom-backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	migrationsDir := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations")
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer migraciones: %v\n", err)
		os.Exit(1)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		sql, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Leer %s: %v\n", name, err)
			os.Exit(1)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			fmt.Fprintf(os.Stderr, "Aplicar %s: %v\n", name, err)
			os.Exit(1)
		}
		fmt.Printf("Aplicada migración %s\n", name)
	}

	email := strings.ToLower(envOr("SEED_ADMIN_EMAIL", "admin@localhost"))
	password := envOr("SEED_ADMIN_PASSWORD", "cambiar-ya")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hash de password: %v\n", err)
		os.Exit(1)
	}

	now := time.Now()
	// idempotente: si la cuenta ya existe, no se toca
	tag, err := pool.Exec(ctx, `
		INSERT INTO users (id, full_name, email, password_hash, roles, loyalty_points, is_active, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, true, true, $6, $6)
		ON CONFLICT (email) DO NOTHING`,
		uuid.New().String(), "Superadmin", email, string(hash),
		[]string{entity.RoleSuperadmin}, now,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear superadmin: %v\n", err)
		os.Exit(1)
	}
	if tag.RowsAffected() > 0 {
		fmt.Printf("Superadmin creado: %s\n", email)
	} else {
		fmt.Printf("Superadmin ya existía: %s\n", email)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// findModuleRoot sube directorios hasta encontrar go.mod.
func findModuleRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}
