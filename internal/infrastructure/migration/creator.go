package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// MigrationFile represents a migration file pair
type MigrationFile struct {
	Version  string
	Name     string
	UpPath   string
	DownPath string
}

// CreateMigration creates an empty up/down migration file pair named
// with a sortable timestamp version
func CreateMigration(migrationsDir, name string) (*MigrationFile, error) {
	if err := os.MkdirAll(migrationsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	version := time.Now().Format("20060102150405")
	baseName := fmt.Sprintf("%s_%s", version, sanitizeName(name))

	mf := &MigrationFile{
		Version:  version,
		Name:     name,
		UpPath:   filepath.Join(migrationsDir, baseName+".up.sql"),
		DownPath: filepath.Join(migrationsDir, baseName+".down.sql"),
	}

	header := fmt.Sprintf("-- Migration: %s\n\n", name)
	if err := os.WriteFile(mf.UpPath, []byte(header), 0644); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := os.WriteFile(mf.DownPath, []byte(header), 0644); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}
	return mf, nil
}

// sanitizeName converts a migration name to a safe file name format
func sanitizeName(name string) string {
	result := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			result = append(result, c)
		case c >= 'A' && c <= 'Z':
			result = append(result, c+'a'-'A')
		case c == ' ' || c == '-' || c == '_':
			if len(result) > 0 && result[len(result)-1] != '_' {
				result = append(result, '_')
			}
		}
	}
	if len(result) > 0 && result[len(result)-1] == '_' {
		result = result[:len(result)-1]
	}
	return string(result)
}

// ListMigrations returns the base names of all migrations in a directory
func ListMigrations(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if len(name) > 7 && name[len(name)-7:] == ".up.sql" {
			migrations = append(migrations, name[:len(name)-7])
		}
	}
	return migrations, nil
}
