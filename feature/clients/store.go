package clients

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"migration-reconciler/core/database"
	"migration-reconciler/core/reconcile"
	"migration-reconciler/core/storage"
	"migration-reconciler/core/utils"
	"migration-reconciler/feature/clients/models"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
)

// MissingInputHint tells the operator how to produce missing snapshots.
const MissingInputHint = "run 'migration-reconciler generate' first"

// ErrBackendUnavailable is returned when a location needs a backend that was
// not configured.
var ErrBackendUnavailable = errors.New("backend not configured")

const insertBatchSize = 500

// Store loads datasets from, and writes reports and datasets to, files,
// object storage and database tables.
type Store struct {
	client storage.Client
	bucket string
	region string
	db     *gorm.DB
	codec  *Codec
}

// NewStore creates a store. client and db may be nil; locations that need
// them then fail with ErrBackendUnavailable.
func NewStore(client storage.Client, bucket, region string, db *gorm.DB, codec *Codec) *Store {
	return &Store{client: client, bucket: bucket, region: region, db: db, codec: codec}
}

// Codec returns the codec used for delimited files.
func (s *Store) Codec() *Codec {
	return s.codec
}

// Parse parses a location against the store's default bucket.
func (s *Store) Parse(raw string) (Location, error) {
	return ParseLocation(raw, s.bucket)
}

// Load reads the dataset at raw for the given side.
func (s *Store) Load(ctx context.Context, side reconcile.Side, raw string) (reconcile.Dataset[models.Client], error) {
	loc, err := s.Parse(raw)
	if err != nil {
		return reconcile.Dataset[models.Client]{}, err
	}

	switch loc.Scheme {
	case SchemeS3:
		return s.loadObject(ctx, side, loc)
	case SchemeDB:
		return s.loadTable(ctx, side, loc)
	default:
		return s.loadFile(side, loc)
	}
}

func (s *Store) notFound(side reconcile.Side, loc Location) error {
	return &reconcile.InputNotFoundError{Side: side, Location: loc.String(), Hint: MissingInputHint}
}

func (s *Store) loadFile(side reconcile.Side, loc Location) (reconcile.Dataset[models.Client], error) {
	f, err := os.Open(loc.Path)
	if errors.Is(err, os.ErrNotExist) {
		return reconcile.Dataset[models.Client]{}, s.notFound(side, loc)
	}
	if err != nil {
		return reconcile.Dataset[models.Client]{}, fmt.Errorf("failed to open %s dataset: %w", side, err)
	}
	defer f.Close()

	return s.codec.Decode(f, side, loc.String())
}

func (s *Store) loadObject(ctx context.Context, side reconcile.Side, loc Location) (reconcile.Dataset[models.Client], error) {
	if s.client == nil {
		return reconcile.Dataset[models.Client]{}, fmt.Errorf("%s location %s: storage %w", side, loc, ErrBackendUnavailable)
	}

	obj, err := s.client.GetObject(ctx, loc.Bucket, loc.Path, minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return reconcile.Dataset[models.Client]{}, s.notFound(side, loc)
		}
		return reconcile.Dataset[models.Client]{}, fmt.Errorf("failed to get %s object: %w", side, err)
	}
	defer obj.Close()

	// Minio reports a missing object on first read, so buffer before decoding.
	data, err := io.ReadAll(obj)
	if err != nil {
		if storage.IsNotFound(err) {
			return reconcile.Dataset[models.Client]{}, s.notFound(side, loc)
		}
		return reconcile.Dataset[models.Client]{}, fmt.Errorf("failed to read %s object: %w", side, err)
	}

	return s.codec.Decode(bytes.NewReader(data), side, loc.String())
}

func (s *Store) loadTable(ctx context.Context, side reconcile.Side, loc Location) (reconcile.Dataset[models.Client], error) {
	ds := reconcile.Dataset[models.Client]{Location: loc.String()}
	if s.db == nil {
		return ds, fmt.Errorf("%s location %s: database %w", side, loc, ErrBackendUnavailable)
	}

	db := s.db.WithContext(ctx)
	if !db.Migrator().HasTable(loc.Path) {
		return ds, s.notFound(side, loc)
	}

	columns, err := database.GetTableColumns(db, loc.Path)
	if err != nil {
		return ds, err
	}
	ds.Columns = database.ColumnNames(columns)

	rows, err := db.Table(loc.Path).Select(ds.Columns).Rows()
	if err != nil {
		return ds, fmt.Errorf("failed to query %s table %s: %w", side, loc.Path, err)
	}
	defer rows.Close()

	b := newRowBuilder(side, ds.Columns)
	values := make([]any, len(ds.Columns))
	ptrs := make([]any, len(ds.Columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	cells := make([]string, len(ds.Columns))

	line := 0
	for rows.Next() {
		line++
		if err := rows.Scan(ptrs...); err != nil {
			return ds, fmt.Errorf("failed to scan %s row: %w", side, err)
		}
		for i, v := range values {
			// SQL NULL and empty text are both null cells.
			cells[i], _ = utils.ToText(v)
		}

		client, issues, err := b.build(line, cells)
		if err != nil {
			return ds, err
		}
		ds.Records = append(ds.Records, client)
		ds.Issues = append(ds.Issues, issues...)
	}
	if err := rows.Err(); err != nil {
		return ds, fmt.Errorf("failed to iterate %s table %s: %w", side, loc.Path, err)
	}

	return ds, nil
}

// WriteReport writes the report to raw. Database locations append the
// entries tagged with runID.
func (s *Store) WriteReport(ctx context.Context, raw, runID string, report *reconcile.Report) error {
	loc, err := s.Parse(raw)
	if err != nil {
		return err
	}

	if loc.Scheme == SchemeDB {
		rows := make([]models.DiscrepancyRow, 0, len(report.Entries))
		for _, e := range report.Entries {
			rows = append(rows, models.NewDiscrepancyRow(runID, e))
		}
		return s.writeTable(ctx, loc, &models.DiscrepancyRow{}, rows, len(rows), false)
	}

	var buf bytes.Buffer
	if err := s.codec.EncodeReport(&buf, report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return s.writeBytes(ctx, loc, buf.Bytes())
}

// WriteDataset writes records to raw, replacing any previous content.
func (s *Store) WriteDataset(ctx context.Context, raw string, records []models.Client) error {
	loc, err := s.Parse(raw)
	if err != nil {
		return err
	}

	if loc.Scheme == SchemeDB {
		rows := make([]models.ClientRow, 0, len(records))
		for _, r := range records {
			rows = append(rows, models.NewClientRow(r))
		}
		return s.writeTable(ctx, loc, &models.ClientRow{}, rows, len(rows), true)
	}

	var buf bytes.Buffer
	if err := s.codec.EncodeDataset(&buf, records); err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	return s.writeBytes(ctx, loc, buf.Bytes())
}

func (s *Store) writeBytes(ctx context.Context, loc Location, data []byte) error {
	if loc.Scheme == SchemeS3 {
		if s.client == nil {
			return fmt.Errorf("location %s: storage %w", loc, ErrBackendUnavailable)
		}
		if err := storage.EnsureBucket(ctx, s.client, loc.Bucket, s.region); err != nil {
			return err
		}
		_, err := s.client.PutObject(ctx, loc.Bucket, loc.Path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: "text/csv",
		})
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", loc, err)
		}
		return nil
	}

	if dir := filepath.Dir(loc.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(loc.Path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", loc, err)
	}
	return nil
}

// writeTable migrates the table for model and inserts the n rows. With
// replace the table is dropped first.
func (s *Store) writeTable(ctx context.Context, loc Location, model, rows any, n int, replace bool) error {
	if s.db == nil {
		return fmt.Errorf("location %s: database %w", loc, ErrBackendUnavailable)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replace && tx.Migrator().HasTable(loc.Path) {
			if err := tx.Migrator().DropTable(loc.Path); err != nil {
				return fmt.Errorf("failed to drop table %s: %w", loc.Path, err)
			}
		}
		if err := tx.Table(loc.Path).AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate table %s: %w", loc.Path, err)
		}
		if n == 0 {
			return nil
		}
		if err := tx.Table(loc.Path).CreateInBatches(rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert into %s: %w", loc.Path, err)
		}
		return nil
	})
}
