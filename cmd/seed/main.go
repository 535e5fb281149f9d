// Command seed runs the bootstrap seeders against the configured database:
// the admin user (if none exists) and the starter service catalog (if empty).
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/cybershield-it/backend/internal/auth"
	"github.com/cybershield-it/backend/internal/config"
	"github.com/cybershield-it/backend/internal/customers"
	"github.com/cybershield-it/backend/internal/db"
	"github.com/cybershield-it/backend/internal/enquiries"
	"github.com/cybershield-it/backend/internal/seeds"
	"github.com/cybershield-it/backend/internal/services"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	gdb, err := db.Open(cfg.Database)
	if err != nil {
		fmt.Fprintln(os.Stderr, "database:", err)
		os.Exit(1)
	}
	defer db.Close(gdb)

	if err := auth.Init(gdb); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := services.Init(gdb); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := customers.Init(gdb); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := enquiries.Init(gdb); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := seeds.EnsureAdmin(gdb, cfg.Admin); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := seeds.SeedServices(gdb); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println("Seeding complete")
}
