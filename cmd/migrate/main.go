package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"studylink/internal/config"
)

const usage = "Usage: studylink-migrate [up|down|steps N|force V|version]"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("migrate: failed to load config: %v", err)
	}

	m, err := migrate.New("file://db/migrations", cfg.DB.DSN())
	if err != nil {
		log.Fatalf("migrate: failed to create instance: %v", err)
	}
	defer m.Close()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	switch cmd := os.Args[1]; cmd {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate: up failed: %v", err)
		}
		log.Println("migrate: schema is up to date")

	case "down":
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate: down failed: %v", err)
		}
		log.Println("migrate: all migrations reverted")

	case "steps":
		n, err := intArg("steps")
		if err != nil {
			log.Fatal(err)
		}
		if err := m.Steps(n); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate: steps failed: %v", err)
		}
		log.Printf("migrate: applied %d steps", n)

	case "force":
		// Clears the dirty flag after a failed migration by pinning the
		// schema version without running anything.
		v, err := intArg("force")
		if err != nil {
			log.Fatal(err)
		}
		if err := m.Force(v); err != nil {
			log.Fatalf("migrate: force failed: %v", err)
		}
		log.Printf("migrate: version forced to %d", v)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("migrate: failed to get version: %v", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("unknown command: %s\n", cmd)
		fmt.Println(usage)
		os.Exit(1)
	}
}

func intArg(cmd string) (int, error) {
	if len(os.Args) < 3 {
		return 0, fmt.Errorf("migrate: %s requires a number argument", cmd)
	}
	n, err := strconv.Atoi(os.Args[2])
	if err != nil {
		return 0, fmt.Errorf("migrate: invalid %s argument: %v", cmd, err)
	}
	return n, nil
}
