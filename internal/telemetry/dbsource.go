package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/lexipath/internal/platform/logger"
)

// CardStateRow mirrors one row of the local review-state table maintained by
// the collection sync job. Linkage keeps the raw block exactly as the review
// platform exported it, so schema resolution stays in the adapter.
type CardStateRow struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Collection   string         `gorm:"column:collection;index" json:"collection"`
	CardID       string         `gorm:"column:card_id;not null;index" json:"card_id"`
	IntervalDays float64        `gorm:"column:interval_days;not null;default:0" json:"interval_days"`
	Lapses       int            `gorm:"column:lapses;not null;default:0" json:"lapses"`
	Reps         int            `gorm:"column:reps;not null;default:0" json:"reps"`
	EaseFactor   *int           `gorm:"column:ease_factor" json:"ease_factor,omitempty"`
	Linkage      datatypes.JSON `gorm:"column:linkage" json:"linkage"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (CardStateRow) TableName() string { return "card_state" }

func (r *CardStateRow) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// DBSource reads review state from a local database instead of the live
// review platform API. Useful when the collection is synced down next to the
// engine and the platform itself is unreachable.
type DBSource struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewDBSource opens the review-state database named by dsn and ensures its
// schema. A postgres URL (or key=value DSN) selects the postgres driver;
// anything else is treated as a sqlite file path.
func NewDBSource(dsn string, logg *logger.Logger) (*DBSource, error) {
	serviceLog := logg.With("service", "TelemetryDB")

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialectorFor(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open review-state database: %w", err)
	}
	if err := db.AutoMigrate(&CardStateRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate review-state schema: %w", err)
	}

	return &DBSource{db: db, log: serviceLog}, nil
}

func dialectorFor(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}

func (s *DBSource) Query(ctx context.Context, filter string) ([]RawReviewRecord, error) {
	q := s.db.WithContext(ctx).Model(&CardStateRow{})
	if f := strings.TrimSpace(filter); f != "" {
		q = q.Where("collection = ?", f)
	}

	var rows []CardStateRow
	if err := q.Order("card_id").Find(&rows).Error; err != nil {
		return nil, wrapErr("query", err)
	}

	out := make([]RawReviewRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, RawReviewRecord{
			RecordID:     r.CardID,
			IntervalDays: r.IntervalDays,
			Lapses:       r.Lapses,
			Reps:         r.Reps,
			EaseFactor:   r.EaseFactor,
			Linkage:      json.RawMessage(r.Linkage),
		})
	}
	s.log.Debug("Loaded review records from database", "count", len(out), "filter", filter)
	return out, nil
}

// Import bulk-inserts review records under the given collection name. Used by
// the import command to seed a local database from a platform export.
func (s *DBSource) Import(ctx context.Context, collection string, records []RawReviewRecord) (int, error) {
	rows := make([]CardStateRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, CardStateRow{
			Collection:   strings.TrimSpace(collection),
			CardID:       rec.RecordID,
			IntervalDays: rec.IntervalDays,
			Lapses:       rec.Lapses,
			Reps:         rec.Reps,
			EaseFactor:   rec.EaseFactor,
			Linkage:      datatypes.JSON(rec.Linkage),
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(rows, 200).Error; err != nil {
		return 0, wrapErr("import", err)
	}
	return len(rows), nil
}
