package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/lexipath/internal/platform/envutil"
	"github.com/yungbote/lexipath/internal/telemetry"
)

const importTimeout = 60 * time.Second

type importCommander struct {
	dsn        string
	collection string
}

const importLongDesc string = `Load a review-record export into the local review-state store.

Reads a JSON export, either a bare array of review records or a platform
response envelope with a "result" array, and writes it to the database named
by --dsn so later runs can use --telemetry-dsn instead of the live API.

Example:
  lexipath import reviews.json --dsn lexipath.db
  lexipath import reviews.json --dsn "host=localhost dbname=lexipath" --collection german`

const importShortDesc string = "Import review records into the local store"

func newImportCmd() *cobra.Command {
	cmder := &importCommander{}

	cmd := &cobra.Command{
		Use:   "import <export.json>",
		Short: importShortDesc,
		Long:  importLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(args[0])
		},
	}

	cmd.Flags().StringVar(&cmder.dsn, "dsn", "", "Review-state database DSN (default SRS_DB_DSN)")
	cmd.Flags().StringVar(&cmder.collection, "collection", "", "Collection name to file the records under")

	return cmd
}

func (c *importCommander) run(path string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	records, err := readExport(path)
	if err != nil {
		return err
	}

	dsn := c.dsn
	if dsn == "" {
		dsn = envutil.String("SRS_DB_DSN", "")
	}
	if dsn == "" {
		return fmt.Errorf("no database configured: pass --dsn or set SRS_DB_DSN")
	}

	store, err := telemetry.NewDBSource(dsn, log)
	if err != nil {
		return fmt.Errorf("opening review-state store: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
	defer cancel()

	n, err := store.Import(ctx, c.collection, records)
	if err != nil {
		return fmt.Errorf("importing records: %w", err)
	}

	fmt.Printf("Imported %d review records from %s\n", n, path)
	return nil
}

// readExport accepts both a bare record array and the platform's response
// envelope.
func readExport(path string) ([]telemetry.RawReviewRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	var records []telemetry.RawReviewRecord
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var envelope struct {
		Result []telemetry.RawReviewRecord `json:"result"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Result == nil {
		return nil, fmt.Errorf("parsing export %s: expected a record array or a result envelope", path)
	}
	return envelope.Result, nil
}
