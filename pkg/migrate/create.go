package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)

// CreateSQLMigration writes <dir>/<version>_<name>.sql. The version is the
// current UTC time, bumped past the newest existing migration so files never
// sort before ones already merged. Names starting with create_ get a table
// skeleton with the schema's uuid and timestamp conventions.
func CreateSQLMigration(dir string, name string) (string, error) {
	return createSQLMigration(dir, name, time.Now().UTC())
}

func createSQLMigration(dir, name string, now time.Time) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	safe := sanitizeName(name)
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	version, err := nextVersion(dir, now)
	if err != nil {
		return "", err
	}
	fullpath := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", version, safe))
	if _, err := os.Stat(fullpath); err == nil {
		return "", fmt.Errorf("migration already exists: %s", fullpath)
	}

	if err := os.WriteFile(fullpath, []byte(template(safe)), 0o644); err != nil {
		return "", fmt.Errorf("write migration %q: %w", fullpath, err)
	}
	return fullpath, nil
}

func sanitizeName(name string) string {
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = nameSanitizeRe.ReplaceAllString(safe, "_")
	return strings.Trim(safe, "_")
}

func nextVersion(dir string, now time.Time) (string, error) {
	files, err := listMigrations(dir)
	if err != nil {
		return "", err
	}
	version := now.UTC().Truncate(time.Second)
	if len(files) == 0 {
		return version.Format(versionLayout), nil
	}
	latest, err := time.Parse(versionLayout, files[len(files)-1].version)
	if err != nil {
		return "", fmt.Errorf("parse migration version %q: %w", files[len(files)-1].version, err)
	}
	if !version.After(latest) {
		version = latest.Add(time.Second)
	}
	return version.Format(versionLayout), nil
}

func template(name string) string {
	up, down := "-- "+name, "-- rollback "+name
	if table, ok := strings.CutPrefix(name, "create_"); ok && table != "" {
		up = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    created_at timestamptz NOT NULL DEFAULT now(),
    updated_at timestamptz NOT NULL DEFAULT now()
);`, table)
		down = fmt.Sprintf("DROP TABLE IF EXISTS %s;", table)
	}
	return fmt.Sprintf(`%s
%s
%s
%s

%s
%s
%s
%s
`, upMarker, beginMarker, up, endMarker, downMarker, beginMarker, down, endMarker)
}
