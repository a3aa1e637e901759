// Command customer-import bulk-loads customers from gzipped CSV exports
// (name,email,phone,address — no header). Files are parsed concurrently; a
// bloom filter drops duplicate emails across files before they ever reach
// the database, and the unique index catches the filter's rare false
// negatives as well as rows already present.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/ordercraft/storefront/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	batchSize     = 1000
	progressEvery = 100_000
)

const insertCustomerSQL = `INSERT INTO customers (name, email, phone, address)
	VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
	ON CONFLICT (email) DO NOTHING`

type record struct {
	name    string
	email   string
	phone   string
	address string
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.csv.gz export files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("customer import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("customer import completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.csv.gz"))
	if err != nil {
		return errors.Wrap(err, "list export files")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.csv.gz files in %s", dataDir)
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	// Dedupe filter shared by all parser goroutines. TestAndAdd under a
	// mutex: the filter itself is not safe for concurrent writers.
	var (
		mu   sync.Mutex
		seen = bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	)

	records := make(chan record, 4*batchSize)

	g, gctx := errgroup.WithContext(ctx)

	// Parsers run in a sub-group so the channel closes exactly once, after
	// the last file finishes. A writer failure cancels gctx and with it the
	// parsers, so nobody blocks on a full channel.
	parsers, pctx := errgroup.WithContext(gctx)
	for _, f := range files {
		parsers.Go(func() error {
			return parseFile(pctx, f, records, func(email string) bool {
				mu.Lock()
				defer mu.Unlock()
				return seen.TestAndAdd([]byte(email))
			})
		})
	}

	g.Go(func() error {
		defer close(records)
		return parsers.Wait()
	})
	g.Go(func() error {
		return writeCustomers(gctx, pool, records)
	})

	return g.Wait()
}

// parseFile streams one gzipped CSV file, skipping malformed lines and
// emails already claimed by another file.
func parseFile(ctx context.Context, path string, out chan<- record, duplicate func(email string) bool) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "gzip reader %s", path)
	}
	defer gz.Close()

	var lines, skipped int64
	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lines++
		if lines%progressEvery == 0 {
			slog.Info("parsing", slog.String("file", filepath.Base(path)), slog.Int64("lines", lines))
		}

		rec, ok := parseLine(scanner.Text())
		if !ok || duplicate(rec.email) {
			skipped++
			continue
		}

		select {
		case out <- rec:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	slog.Info("file parsed",
		slog.String("file", filepath.Base(path)),
		slog.Int64("lines", lines),
		slog.Int64("skipped", skipped),
	)
	return nil
}

func parseLine(line string) (record, bool) {
	fields := strings.SplitN(line, ",", 4)
	if len(fields) < 2 {
		return record{}, false
	}

	rec := record{
		name:  strings.TrimSpace(fields[0]),
		email: strings.ToLower(strings.TrimSpace(fields[1])),
	}
	if len(fields) > 2 {
		rec.phone = strings.TrimSpace(fields[2])
	}
	if len(fields) > 3 {
		rec.address = strings.TrimSpace(fields[3])
	}

	if rec.name == "" || !strings.Contains(rec.email, "@") {
		return record{}, false
	}
	return rec, true
}

// writeCustomers drains the record channel, flushing a batch every
// batchSize rows and once more at the end.
func writeCustomers(ctx context.Context, pool *pgxpool.Pool, records <-chan record) error {
	var (
		batch    pgx.Batch
		imported int64
	)

	flush := func() error {
		if batch.Len() == 0 {
			return nil
		}
		if err := pool.SendBatch(ctx, &batch).Close(); err != nil {
			return errors.Wrap(err, "send batch")
		}
		imported += int64(batch.Len())
		batch = pgx.Batch{}
		return nil
	}

	for rec := range records {
		batch.Queue(insertCustomerSQL, rec.name, rec.email, rec.phone, rec.address)
		if batch.Len() >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	slog.Info("customers imported", slog.Int64("count", imported))
	return nil
}
