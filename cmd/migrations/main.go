package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/pollkit/internal/config"
)

var errMigrationNotFound = errors.New("migration file not found")

func main() {
	configPath := flag.String("config", "", "Optional YAML configuration file")
	dir := flag.String("dir", filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations"), "Migrations directory")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: migrations [flags] <name>|up|down")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, *dir, flag.Arg(0)); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, dir, name string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	files, err := migrationFiles(dir, name)
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	for _, file := range files {
		content, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return err
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute %s: %w", file, err)
		}
		slog.Info("migration applied", "file", file)
	}
	return nil
}

// migrationFiles resolves name to the files to run. "up" selects every up
// migration in order, "down" every down migration in reverse order, anything
// else the single file whose name ends with "<name>.sql".
func migrationFiles(dir, name string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	switch name {
	case "up", "down":
		var files []string
		for _, n := range names {
			if strings.HasSuffix(n, "."+name+".sql") {
				files = append(files, n)
			}
		}
		if name == "down" {
			slices.Reverse(files)
		}
		if len(files) == 0 {
			return nil, errMigrationNotFound
		}
		return files, nil
	}

	pattern := regexp.MustCompile(`^.*` + regexp.QuoteMeta(name) + `\.sql$`)
	for _, n := range names {
		if pattern.MatchString(n) {
			return []string{n}, nil
		}
	}
	return nil, errMigrationNotFound
}
