// Package export writes plain-SQL snapshots of the application tables,
// used for backups and for seeding demo environments.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Tables lists the exported tables in dependency order so the dump can be
// replayed with foreign keys enabled.
var Tables = []string{
	"department",
	"practitioner",
	"patient",
	"account",
	"medication",
	"appointment",
	"consultation",
	"treatment",
	"invoice",
}

type Exporter struct {
	pool *pgxpool.Pool
	dir  string
}

func NewExporter(pool *pgxpool.Pool, dir string) *Exporter {
	return &Exporter{pool: pool, dir: dir}
}

// Dump writes every table to a timestamped .sql file under the export
// directory and returns the file path.
func (e *Exporter) Dump(ctx context.Context) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	name := fmt.Sprintf("sihati_%s.sql", time.Now().Format("20060102_150405"))
	path := filepath.Join(e.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create dump file: %w", err)
	}
	defer f.Close()

	fmt.Fprintf(f, "-- sihati dump %s\nBEGIN;\n\n", time.Now().Format(time.RFC3339))

	for _, table := range Tables {
		if err := e.dumpTable(ctx, f, table); err != nil {
			return "", fmt.Errorf("dump %s: %w", table, err)
		}
	}

	fmt.Fprintln(f, "COMMIT;")

	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("flush dump file: %w", err)
	}

	log.Info().Str("path", path).Msg("database exported")
	return path, nil
}

func (e *Exporter) dumpTable(ctx context.Context, f *os.File, table string) error {
	rows, err := e.pool.Query(ctx, "SELECT * FROM "+table+" ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	var cols []string
	for _, fd := range rows.FieldDescriptions() {
		cols = append(cols, fd.Name)
	}

	count := 0
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return err
		}
		fmt.Fprintf(f, "INSERT INTO %s (%s) VALUES (%s);\n",
			table, strings.Join(cols, ", "), renderValues(values))
		count++
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if count > 0 {
		fmt.Fprintln(f)
	}
	return nil
}

func renderValues(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Literal(v)
	}
	return strings.Join(parts, ", ")
}

// Literal renders a Go value as a SQL literal.
func Literal(v any) string {
	switch value := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if value {
			return "TRUE"
		}
		return "FALSE"
	case int, int32, int64:
		return fmt.Sprintf("%d", value)
	case float32, float64:
		return fmt.Sprintf("%v", value)
	case time.Time:
		return "'" + value.Format("2006-01-02 15:04:05.999999-07") + "'"
	case string:
		return quote(value)
	case []byte:
		return quote(string(value))
	default:
		return quote(fmt.Sprintf("%v", value))
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
