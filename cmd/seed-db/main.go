// Command seed-db loads the catalog fixture (manufacturers, products, demo
// customers) into the database, creating the schema first when needed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ordercraft/storefront/internal/domain/customer"
	"github.com/ordercraft/storefront/internal/domain/product"
	"github.com/ordercraft/storefront/internal/storage/postgres"
)

type catalogJSON struct {
	Manufacturers []string       `json:"manufacturers"`
	Products      []productJSON  `json:"products"`
	Customers     []customerJSON `json:"customers"`
}

type productJSON struct {
	Manufacturer string          `json:"manufacturer,omitempty"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
}

type customerJSON struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func main() {
	var (
		databaseURL string
		catalogFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogFile, "catalog-file", "db/seed/catalog.json", "path to catalog JSON file")
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

	if err := run(ctx, databaseURL, catalogFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogFile string) error {
	slog.Info("reading catalog file", slog.String("path", catalogFile))

	data, err := os.ReadFile(catalogFile)
	if err != nil {
		return errors.Wrap(err, "read catalog file")
	}

	var catalog catalogJSON
	if err := json.Unmarshal(data, &catalog); err != nil {
		return errors.Wrap(err, "parse catalog JSON")
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	manufacturers, err := seedManufacturers(ctx, pool, catalog.Manufacturers)
	if err != nil {
		return errors.Wrap(err, "seed manufacturers")
	}

	if err := seedProducts(ctx, pool, catalog.Products, manufacturers); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedCustomers(ctx, pool, catalog.Customers); err != nil {
		return errors.Wrap(err, "seed customers")
	}

	return nil
}

// seedManufacturers upserts each manufacturer by name and returns the
// name -> id mapping for product inserts.
func seedManufacturers(ctx context.Context, pool *pgxpool.Pool, names []string) (map[string]int64, error) {
	const query = `INSERT INTO manufacturers (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING manufacturer_id`

	ids := make(map[string]int64, len(names))
	for _, name := range names {
		var id int64
		if err := pool.QueryRow(ctx, query, name).Scan(&id); err != nil {
			return nil, errors.Wrapf(err, "manufacturer %q", name)
		}
		ids[name] = id
	}

	slog.Info("manufacturers seeded", slog.Int("count", len(ids)))
	return ids, nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, products []productJSON, manufacturers map[string]int64) error {
	repo := postgres.NewProductRepository(pool)

	for _, pj := range products {
		p := product.Product{
			Name:          pj.Name,
			Description:   pj.Description,
			Price:         pj.Price,
			StockQuantity: pj.Stock,
		}
		if pj.Manufacturer != "" {
			id, ok := manufacturers[pj.Manufacturer]
			if !ok {
				return errors.Errorf("product %q references unknown manufacturer %q", pj.Name, pj.Manufacturer)
			}
			p.ManufacturerID = &id
		}
		if err := repo.Create(ctx, &p); err != nil {
			return errors.Wrapf(err, "product %q", pj.Name)
		}
	}

	slog.Info("products seeded", slog.Int("count", len(products)))
	return nil
}

func seedCustomers(ctx context.Context, pool *pgxpool.Pool, customers []customerJSON) error {
	repo := postgres.NewCustomerRepository(pool)

	seeded := 0
	for _, cj := range customers {
		c := customer.Customer{
			Name:    cj.Name,
			Email:   cj.Email,
			Phone:   cj.Phone,
			Address: cj.Address,
		}
		err := repo.Create(ctx, &c)
		switch {
		case errors.Is(err, customer.ErrDuplicateEmail):
			slog.Info("customer already present, skipping", slog.String("email", cj.Email))
		case err != nil:
			return errors.Wrapf(err, "customer %q", cj.Email)
		default:
			seeded++
		}
	}

	slog.Info("customers seeded", slog.Int("count", seeded))
	return nil
}
