package main

import (
	"os"

	"github.com/zemki/molonews-backend/store"
	"github.com/zemki/molonews-backend/utils/dotenv"
	Flag "github.com/zemki/molonews-backend/utils/flag"
	Logger "github.com/zemki/molonews-backend/utils/log"
)

// Maintenance job: merges overlapping event occurrences left behind by
// repeated calendar imports. Run from cron, independent of the importer.
func main() {
	Flag.ParseFlags()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	db, err := store.ConnectDb(os.Getenv("DATABASE_DSN"))
	if err != nil {
		Logger.LogV2.Errorf("connecting to database failed", err)
		os.Exit(1)
	}

	merged, err := store.ConsolidateOccurrences(store.NewGormStore(db))
	if err != nil {
		Logger.LogV2.Errorf("consolidating occurrences failed", err)
		os.Exit(1)
	}
	Logger.LogV2.Infof("occurrence consolidation complete", merged, "events touched")
}
