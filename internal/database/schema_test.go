package database

import (
	"io/fs"
	"path"
	"strings"
	"testing"
)

func TestMigrationFilesExist(t *testing.T) {
	expectedMigrations := []string{
		"00001_create_toys_table.sql",
		"00002_create_title_category_index.sql",
	}

	for _, migration := range expectedMigrations {
		if _, err := fs.Stat(Migrations, path.Join(MigrationsDir, migration)); err != nil {
			t.Errorf("Migration file %s is not embedded: %v", migration, err)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := fs.ReadDir(Migrations, MigrationsDir)
	if err != nil {
		t.Fatalf("Failed to read embedded migrations: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		content, err := fs.ReadFile(Migrations, path.Join(MigrationsDir, file.Name()))
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", file.Name(), err)
			continue
		}

		contentStr := string(content)

		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(contentStr, directive) {
				t.Errorf("Migration file %s missing '%s' directive", file.Name(), directive)
			}
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestToysTableHasEveryToyColumn(t *testing.T) {
	content, err := fs.ReadFile(Migrations, path.Join(MigrationsDir, "00001_create_toys_table.sql"))
	if err != nil {
		t.Fatalf("Failed to read toys migration: %v", err)
	}

	contentStr := string(content)

	if !strings.Contains(contentStr, "CREATE TABLE IF NOT EXISTS toys") {
		t.Error("Toys migration does not create table toys")
	}
	if !strings.Contains(contentStr, "DROP TABLE IF EXISTS toys") {
		t.Error("Toys migration does not drop table toys in down section")
	}

	columns := []string{
		"seq", "id", "title", "category", "image", "price",
		"rating", "quantity", "description", "seller_email",
	}
	for _, column := range columns {
		if !strings.Contains(contentStr, "\n    "+column+" ") {
			t.Errorf("Toys table is missing column %s", column)
		}
	}
}

func TestSearchIndexMatchesMongoIndexName(t *testing.T) {
	content, err := fs.ReadFile(Migrations, path.Join(MigrationsDir, "00002_create_title_category_index.sql"))
	if err != nil {
		t.Fatalf("Failed to read index migration: %v", err)
	}

	if !strings.Contains(string(content), `"`+SearchIndexName+`" ON toys(title, category)`) {
		t.Errorf("Index migration does not create %s on (title, category)", SearchIndexName)
	}
}
