package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var migrationFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks every .sql file in dir for the goose naming
// convention, unique versions, and Up/Down sections. Non-SQL entries
// are ignored.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	versions := map[string]string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := migrationFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, dup := versions[m[1]]; dup {
			return fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		versions[m[1]] = name

		if err := checkGooseSections(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

func checkGooseSections(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file %q: %w", path, err)
	}
	for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
		if !strings.Contains(string(data), marker) {
			return fmt.Errorf("migration %q missing %q", filepath.Base(path), marker)
		}
	}
	return nil
}
