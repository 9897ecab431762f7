package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"skillforge/internal/logger"

	_ "github.com/sijms/go-ora/v2" // Ensure go-ora driver is registered
	"go.uber.org/zap"
)

// NewMigrateOracleDB opens a plain database/sql connection for migrations.
func NewMigrateOracleDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("oracle", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not ping database: %v", err)
	}

	return db, nil
}

// RunMigrations executes every *.up.sql file under migrationsDir in lexical
// order, skipping files recorded in schema_migrations. Oracle DDL is not
// transactional, so a failed migration must be cleaned up by hand before
// re-running.
func RunMigrations(db *sql.DB, migrationsDir string) error {
	l := logger.Get()

	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("could not read migrations directory: %v", err)
	}

	var names []string
	for _, file := range files {
		if strings.HasSuffix(file.Name(), ".up.sql") {
			names = append(names, file.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if applied[name] {
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %v", name, err)
		}

		// Oracle does not accept multiple statements in one Exec.
		for _, stmt := range splitStatements(string(content)) {
			if _, err := db.Exec(stmt); err != nil {
				return fmt.Errorf("could not execute migration %s: %v", name, err)
			}
		}

		if _, err := db.Exec("INSERT INTO schema_migrations (file_name) VALUES (:1)", name); err != nil {
			return fmt.Errorf("could not record migration %s: %v", name, err)
		}

		l.Info("Executed migration", zap.String("file", name))
	}

	l.Info("Migrations completed successfully")
	return nil
}

func ensureMigrationsTable(db *sql.DB) error {
	// ORA-00955: name is already used by an existing object
	_, err := db.Exec(`CREATE TABLE schema_migrations (
		file_name VARCHAR2(255) PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT SYSTIMESTAMP
	)`)
	if err != nil && !strings.Contains(err.Error(), "ORA-00955") {
		return fmt.Errorf("could not create schema_migrations table: %v", err)
	}
	return nil
}

func appliedMigrations(db *sql.DB) (map[string]bool, error) {
	rows, err := db.Query("SELECT file_name FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("could not read schema_migrations: %v", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

// splitStatements breaks a migration file into individual statements on
// semicolons that end a line. Semicolons inside string literals on the same
// line are preserved.
func splitStatements(content string) []string {
	var statements []string
	var current strings.Builder
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		if strings.HasSuffix(trimmed, ";") {
			current.WriteString(strings.TrimSuffix(trimmed, ";"))
			stmt := strings.TrimSpace(current.String())
			if stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}
	return statements
}
