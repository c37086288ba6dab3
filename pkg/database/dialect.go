package database

import (
	"fmt"
	"strings"

	"github.com/BartekS5/uncoupledetl/pkg/models"
)

// Dialect holds what differs between the supported SQL engines: the
// database/sql driver name, bind placeholders and column types.
type Dialect struct {
	Name        string
	Driver      string
	Placeholder func(n int) string // n is 1-based
	IntType     string
	FloatType   string
	StringType  func(size int) string
}

func questionMark(int) string { return "?" }

var (
	SQLite = Dialect{
		Name:        "sqlite",
		Driver:      "sqlite",
		Placeholder: questionMark,
		IntType:     "INTEGER",
		FloatType:   "REAL",
		StringType:  func(size int) string { return fmt.Sprintf("VARCHAR(%d)", size) },
	}

	Postgres = Dialect{
		Name:        "postgres",
		Driver:      "postgres",
		Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		IntType:     "INTEGER",
		FloatType:   "DOUBLE PRECISION",
		StringType:  func(size int) string { return fmt.Sprintf("VARCHAR(%d)", size) },
	}

	MySQL = Dialect{
		Name:        "mysql",
		Driver:      "mysql",
		Placeholder: questionMark,
		IntType:     "INT",
		FloatType:   "DOUBLE",
		StringType:  func(size int) string { return fmt.Sprintf("VARCHAR(%d)", size) },
	}

	SQLServer = Dialect{
		Name:        "sqlserver",
		Driver:      "sqlserver",
		Placeholder: func(n int) string { return fmt.Sprintf("@p%d", n) },
		IntType:     "INT",
		FloatType:   "FLOAT",
		StringType:  func(size int) string { return fmt.Sprintf("NVARCHAR(%d)", size) },
	}
)

func (d Dialect) columnType(c models.Column) string {
	switch c.Kind {
	case models.KindInt:
		return d.IntType
	case models.KindFloat:
		return d.FloatType
	default:
		size := c.Size
		if size <= 0 {
			size = 255
		}
		return d.StringType(size)
	}
}

// DropTableSQL drops the table if it exists.
func (d Dialect) DropTableSQL(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
}

// CreateTableSQL creates the table; every column is NOT NULL.
func (d Dialect) CreateTableSQL(table string, cols []models.Column) string {
	defs := make([]string, 0, len(cols))
	for _, c := range cols {
		def := fmt.Sprintf("%s %s NOT NULL", c.Name, d.columnType(c))
		if c.PrimaryKey {
			def += " PRIMARY KEY"
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))
}

// InsertSQL builds a single-row insert with one placeholder per column.
func (d Dialect) InsertSQL(table string, cols []models.Column) string {
	names := make([]string, 0, len(cols))
	placeholders := make([]string, 0, len(cols))
	for i, c := range cols {
		names = append(names, c.Name)
		placeholders = append(placeholders, d.Placeholder(i+1))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(placeholders, ", "))
}
