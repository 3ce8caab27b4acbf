package db

import (
	"fmt"

	"github.com/dtnitsch/sheet-query-runner/internal/batch"
	dbpkg "github.com/dtnitsch/sheet-query-runner/pkg/db"
	"github.com/urfave/cli/v2"
)

// openHistory opens the run database from --db, or the configured location.
func openHistory(c *cli.Context) (*dbpkg.DB, error) {
	path := c.String("db")
	if path == "" {
		cfg, err := batch.LoadConfig(c)
		if err != nil {
			return nil, err
		}
		path = batch.HistoryPath(cfg)
	}

	database, err := dbpkg.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// GetRunIDOrLatest returns the run ID (or unique prefix) from args, or the latest run if not provided
func GetRunIDOrLatest(c *cli.Context, database *dbpkg.DB) (string, error) {
	if c.NArg() == 0 {
		return database.LatestRunID()
	}
	return database.ResolveRunID(c.Args().First())
}
