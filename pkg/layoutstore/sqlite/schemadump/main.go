// Command schemadump applies the journal migrations to an in-memory
// database and writes the resulting schema for sqlc.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"codeberg.org/miketth/kbddbar/pkg/layoutstore/sqlite"
	"codeberg.org/miketth/kbddbar/pkg/layoutstore/sqlite/migrations"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("error: %+v", err)
	}
}

func run() error {
	path := pflag.String("path", "", "path to dump the schema to")
	debug := pflag.Bool("debug", false, "use debug level logging")
	pflag.Parse()

	if *path == "" {
		return errors.New("missing --path flag")
	}

	log, err := newLogger(*debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	log.Info("creating empty database")
	db, err := sql.Open("sqlite3", "file:/dev/null?cache=shared&mode=memory")
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	log.Info("applying migrations")
	if err := migrations.Migrate(db, log); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	file, err := os.Create(*path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	log.Infow("dumping schema", "path", *path)
	if err := dumpSchema(context.Background(), sqlite.New(db), file); err != nil {
		return fmt.Errorf("dump schema: %w", err)
	}

	return nil
}

func dumpSchema(ctx context.Context, db *sqlite.Queries, w io.Writer) error {
	tables, err := db.DumpTables(ctx)
	if err != nil {
		return fmt.Errorf("dump tables: %w", err)
	}

	rest, err := db.DumpRest(ctx)
	if err != nil {
		return fmt.Errorf("dump non-table statements: %w", err)
	}

	for _, statement := range append(tables, rest...) {
		if statement == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s;\n\n", *statement); err != nil {
			return fmt.Errorf("write schema: %w", err)
		}
	}

	// sqlc needs sqlite_master to type check the dump queries
	if _, err := io.WriteString(w, sqliteMasterSchema); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}

	return nil
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	loggerConfig := zap.NewDevelopmentConfig()

	loggerConfig.OutputPaths = []string{"stderr"}
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger.Sugar(), nil
}

const sqliteMasterSchema = `
create table sqlite_master (
    type     text,
    name     text,
    tbl_name text,
    rootpage int,
    sql      text
);
`
