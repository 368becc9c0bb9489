package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"yamdb/proj/internal/lib/logger"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

// row is a single csv record keyed by the header of its file.
type row map[string]string

func readCSV(dir, name string) ([]row, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("%s: missing header row", name)
	}
	header := records[0]
	rows := make([]row, 0, len(records)-1)
	for _, record := range records[1:] {
		r := make(row, len(header))
		for i, col := range header {
			r[col] = record[i]
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// importFile loads one csv file with the given insert statement, mapping the
// named columns positionally onto its placeholders. Imported rows keep their
// original ids so cross-file references stay intact.
func importFile(ctx context.Context, tx pgx.Tx, dir, name, stmt string, columns ...string) (int, error) {
	rows, err := readCSV(dir, name)
	if err != nil {
		return 0, err
	}
	for _, r := range rows {
		args := make([]any, len(columns))
		for i, col := range columns {
			args[i] = r[col]
		}
		if _, err := tx.Exec(ctx, stmt, args...); err != nil {
			return 0, fmt.Errorf("%s: %w", name, err)
		}
	}
	return len(rows), nil
}

// resetSequence realigns an identity sequence after rows were inserted with
// explicit ids.
func resetSequence(ctx context.Context, tx pgx.Tx, table string) error {
	stmt := fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%s', 'id'), coalesce(max(id), 1)) FROM %s", table, table,
	)
	_, err := tx.Exec(ctx, stmt)
	return err
}

func run(ctx context.Context, conn *pgx.Conn, dir string, log func(name string, count int)) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// ordered so every foreign key target is loaded before its referrers
	imports := []struct {
		file    string
		stmt    string
		columns []string
	}{
		{
			"category.csv",
			"INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)",
			[]string{"id", "name", "slug"},
		},
		{
			"genre.csv",
			"INSERT INTO genres (id, name, slug) VALUES ($1, $2, $3)",
			[]string{"id", "name", "slug"},
		},
		{
			"users.csv",
			`INSERT INTO users (id, username, email, role, bio, first_name, last_name)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			[]string{"id", "username", "email", "role", "bio", "first_name", "last_name"},
		},
		{
			"titles.csv",
			"INSERT INTO titles (id, name, year, category_id) VALUES ($1, $2, $3, $4)",
			[]string{"id", "name", "year", "category"},
		},
		{
			"genre_title.csv",
			"INSERT INTO genre_title (id, title_id, genre_id) VALUES ($1, $2, $3)",
			[]string{"id", "title_id", "genre_id"},
		},
		{
			"review.csv",
			`INSERT INTO reviews (id, title_id, text, author_id, score, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			[]string{"id", "title_id", "text", "author", "score", "pub_date"},
		},
		{
			"comments.csv",
			`INSERT INTO comments (id, review_id, text, author_id, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			[]string{"id", "review_id", "text", "author", "pub_date"},
		},
	}
	tables := []string{"categories", "genres", "users", "titles", "genre_title", "reviews", "comments"}

	for _, imp := range imports {
		count, err := importFile(ctx, tx, dir, imp.file, imp.stmt, imp.columns...)
		if err != nil {
			return err
		}
		log(imp.file, count)
	}
	for _, table := range tables {
		if err := resetSequence(ctx, tx, table); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func main() {
	dir := flag.String("dir", "static/data", "directory with the csv fixture files")
	flag.Parse()

	// .env is optional, DB_DSN may come from the environment directly
	_ = godotenv.Load()
	log := logger.SetupLogger(true)

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Error("DB_DSN is not set")
		os.Exit(1)
	}
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		log.Error("failed to connect to database", "errMsg", err.Error())
		os.Exit(1)
	}
	defer conn.Close(ctx)

	if err := run(ctx, conn, *dir, func(name string, count int) {
		log.Info("imported", "file", name, "rows", count)
	}); err != nil {
		log.Error("import failed", "errMsg", err.Error())
		os.Exit(1)
	}
	log.Info("all fixtures loaded")
}
