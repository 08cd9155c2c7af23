package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/multierr"
)

const (
	upMarker    = "-- +goose Up"
	downMarker  = "-- +goose Down"
	beginMarker = "-- +goose StatementBegin"
	endMarker   = "-- +goose StatementEnd"
)

var (
	sqlFileRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)
	createRe  = regexp.MustCompile(`(?i)CREATE\s+(TABLE|TYPE)\s+(?:IF\s+NOT\s+EXISTS\s+)?([a-z0-9_]+)`)
	dropRe    = regexp.MustCompile(`(?i)DROP\s+(TABLE|TYPE)\s+(?:IF\s+EXISTS\s+)?([a-z0-9_]+)`)
)

type migrationFile struct {
	version string
	name    string
	path    string
}

// ValidateDir lints every migration in dir and reports all problems at once.
// Besides naming and goose markers it requires the Down section to drop each
// table and enum type the Up section creates, so a rollback leaves no schema
// behind.
func ValidateDir(dir string) error {
	files, errs := listMigrations(dir)
	seen := map[string]string{}
	for _, f := range files {
		if prev, ok := seen[f.version]; ok {
			errs = multierr.Append(errs, fmt.Errorf("duplicate migration version %s in %q and %q", f.version, prev, f.name))
			continue
		}
		seen[f.version] = f.name

		body, err := os.ReadFile(f.path)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("read file %q: %w", f.path, err))
			continue
		}
		errs = multierr.Append(errs, lintMigration(f.name, string(body)))
	}
	return errs
}

func listMigrations(dir string) ([]migrationFile, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	var (
		files []migrationFile
		errs  error
	)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			errs = multierr.Append(errs, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name))
			continue
		}
		files = append(files, migrationFile{version: m[1], name: name, path: filepath.Join(dir, name)})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].version < files[j].version })
	return files, errs
}

func lintMigration(name, body string) error {
	upAt := strings.Index(body, upMarker)
	downAt := strings.Index(body, downMarker)
	switch {
	case upAt < 0:
		return fmt.Errorf("migration %q missing %q", name, upMarker)
	case downAt < 0:
		return fmt.Errorf("migration %q missing %q", name, downMarker)
	case downAt < upAt:
		return fmt.Errorf("migration %q has Down before Up", name)
	}

	var errs error
	if begins, ends := strings.Count(body, beginMarker), strings.Count(body, endMarker); begins != ends {
		errs = multierr.Append(errs, fmt.Errorf("migration %q has %d StatementBegin and %d StatementEnd", name, begins, ends))
	}

	up, down := body[upAt:downAt], body[downAt:]
	dropped := map[string]bool{}
	for _, m := range dropRe.FindAllStringSubmatch(down, -1) {
		dropped[objectKey(m[1], m[2])] = true
	}
	for _, m := range createRe.FindAllStringSubmatch(up, -1) {
		if !dropped[objectKey(m[1], m[2])] {
			errs = multierr.Append(errs, fmt.Errorf("migration %q creates %s %s but Down never drops it", name, strings.ToLower(m[1]), m[2]))
		}
	}
	return errs
}

func objectKey(kind, name string) string {
	return strings.ToLower(kind) + ":" + strings.ToLower(name)
}
