// Package importer copies a registry source into Postgres and tells the
// API instances to pick the new data up.
package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"foodtruck_backend/internal/events"
	"foodtruck_backend/internal/trucks/domain"
	"foodtruck_backend/internal/trucks/loader"
	"foodtruck_backend/internal/trucks/repository"
	"foodtruck_backend/internal/trucks/source"
	"foodtruck_backend/platform/logger"

	"github.com/google/uuid"
)

// Store persists a full import; *repository.Repository implements it.
type Store interface {
	ReplaceAll(ctx context.Context, imp repository.Import, records []domain.Record) error
}

// Notifier announces a finished import; *loader.Notifier implements it.
type Notifier interface {
	Publish(ctx context.Context, msg loader.ReloadMessage) (int64, error)
}

// Archiver keeps a copy of each import; *storage.MinIOService implements it.
type Archiver interface {
	UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
}

// Summary describes a completed import.
type Summary struct {
	ImportID   uuid.UUID
	Source     string
	Records    int
	Skipped    int
	ArchiveKey string
	Notified   int64
}

type Importer struct {
	store    Store
	notifier Notifier
	archiver Archiver
	bucket   string
	bus      events.Bus
	log      *logger.Logger
	now      func() time.Time
}

func New(store Store, log *logger.Logger) *Importer {
	return &Importer{store: store, log: log, now: time.Now}
}

func (i *Importer) WithNotifier(n Notifier) *Importer {
	i.notifier = n
	return i
}

func (i *Importer) WithArchive(a Archiver, bucket string) *Importer {
	i.archiver = a
	i.bucket = bucket
	return i
}

func (i *Importer) WithBus(bus events.Bus) *Importer {
	i.bus = bus
	return i
}

// Import loads src and replaces the stored registry with it. Archiving and
// notification are best effort: once the table is committed the import has
// succeeded.
func (i *Importer) Import(ctx context.Context, src source.Source) (Summary, error) {
	batch, err := src.Load(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	if len(batch.Records) == 0 {
		return Summary{}, fmt.Errorf("load %s: no records, refusing to empty the registry", src.Name())
	}

	imp := repository.Import{
		ID:         uuid.New(),
		Source:     src.Name(),
		Records:    len(batch.Records),
		Skipped:    batch.Skipped,
		ImportedAt: i.now().UTC(),
	}
	if err := i.store.ReplaceAll(ctx, imp, batch.Records); err != nil {
		return Summary{}, err
	}

	sum := Summary{
		ImportID: imp.ID,
		Source:   imp.Source,
		Records:  imp.Records,
		Skipped:  imp.Skipped,
	}
	log := i.log.WithContext(ctx)
	log.Info("food trucks imported", "import_id", imp.ID, "source", imp.Source, "records", imp.Records, "skipped", imp.Skipped)

	if i.archiver != nil {
		key, err := i.archive(ctx, batch.Records)
		if err != nil {
			log.Warn("failed to archive import", "import_id", imp.ID, "error", err)
		} else {
			sum.ArchiveKey = key
		}
	}

	if i.bus != nil {
		i.bus.Publish(ctx, events.RegistryImported{
			BaseEvent: events.NewBaseEvent(),
			BatchID:   imp.ID,
			Source:    imp.Source,
			Records:   imp.Records,
		})
	}

	if i.notifier != nil {
		n, err := i.notifier.Publish(ctx, loader.ReloadMessage{
			ImportID: imp.ID.String(),
			Source:   imp.Source,
			Records:  imp.Records,
			At:       imp.ImportedAt,
		})
		if err != nil {
			log.Warn("failed to notify registry reload", "import_id", imp.ID, "error", err)
		} else {
			sum.Notified = n
		}
	}

	return sum, nil
}

func (i *Importer) archive(ctx context.Context, records []domain.Record) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return "", err
	}
	return i.archiver.UploadFile(ctx, i.bucket, "imports", "food_trucks.csv", "text/csv", &buf, int64(buf.Len()))
}

// WriteCSV writes records in the column layout source.ParseCSV reads.
func WriteCSV(w io.Writer, records []domain.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"applicant", "address", "status", "latitude", "longitude"}); err != nil {
		return err
	}
	for _, r := range records {
		lat, lon := "", ""
		if r.HasLocation() {
			lat = strconv.FormatFloat(r.Location.Lat, 'f', -1, 64)
			lon = strconv.FormatFloat(r.Location.Lon, 'f', -1, 64)
		}
		if err := cw.Write([]string{r.Applicant, r.Address, r.Status.String(), lat, lon}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
