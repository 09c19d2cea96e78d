package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect opens and pings a postgres database.
func Connect(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// RunMigrations applies the SQL migrations from the given directory.
func RunMigrations(db *sqlx.DB, migrationsPath string) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", absPath), "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// PostgresStore persists snapshots into vehicles/tickets tables. Each
// save replaces the whole snapshot in one transaction, mirroring the file
// store's all-or-nothing behavior.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type vehicleRow struct {
	Plate     string        `db:"plate"`
	Location  string        `db:"location"`
	SubMonths sql.NullInt64 `db:"subscription_months"`
	SubStart  sql.NullTime  `db:"subscription_start"`
}

type ticketRow struct {
	Plate   string    `db:"plate"`
	Arrival time.Time `db:"arrival"`
}

func (s *PostgresStore) Load(ctx context.Context) (*Records, error) {
	var spaces int
	err := s.db.GetContext(ctx, &spaces, `SELECT total_spaces FROM lot_state WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load lot state: %w", err)
	}

	var vrows []vehicleRow
	err = s.db.SelectContext(ctx, &vrows, `SELECT plate, location, subscription_months, subscription_start FROM vehicles ORDER BY plate`)
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicles: %w", err)
	}

	var trows []ticketRow
	err = s.db.SelectContext(ctx, &trows, `SELECT plate, arrival FROM tickets ORDER BY plate, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}

	ticketsByPlate := make(map[string][]TicketRecord)
	for _, t := range trows {
		ticketsByPlate[t.Plate] = append(ticketsByPlate[t.Plate], TicketRecord{Plate: t.Plate, Arrival: epoch(t.Arrival)})
	}

	rec := &Records{
		VehiclesIn:  []VehicleRecord{},
		VehiclesOut: []VehicleRecord{},
		Spaces:      spaces,
	}
	for _, row := range vrows {
		v := VehicleRecord{Plate: row.Plate, Tickets: ticketsByPlate[row.Plate]}
		if v.Tickets == nil {
			v.Tickets = []TicketRecord{}
		}
		if row.SubMonths.Valid && row.SubStart.Valid {
			v.Sub = &SubscriptionRecord{
				Plate:  row.Plate,
				Months: int(row.SubMonths.Int64),
				Start:  epoch(row.SubStart.Time),
			}
		}
		if row.Location == "inside" {
			rec.VehiclesIn = append(rec.VehiclesIn, v)
		} else {
			rec.VehiclesOut = append(rec.VehiclesOut, v)
		}
	}
	return rec, nil
}

func (s *PostgresStore) Save(ctx context.Context, rec Records) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tickets`); err != nil {
		return fmt.Errorf("failed to clear tickets: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM vehicles`); err != nil {
		return fmt.Errorf("failed to clear vehicles: %w", err)
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO lot_state (id, total_spaces) VALUES (1, $1) ON CONFLICT (id) DO UPDATE SET total_spaces = $1`, rec.Spaces)
	if err != nil {
		return fmt.Errorf("failed to save lot state: %w", err)
	}

	if err := s.insertVehicles(ctx, tx, rec.VehiclesIn, "inside"); err != nil {
		return err
	}
	if err := s.insertVehicles(ctx, tx, rec.VehiclesOut, "outside"); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *PostgresStore) insertVehicles(ctx context.Context, tx *sqlx.Tx, vehicles []VehicleRecord, location string) error {
	for _, v := range vehicles {
		var months sql.NullInt64
		var start sql.NullTime
		if v.Sub != nil {
			months = sql.NullInt64{Int64: int64(v.Sub.Months), Valid: true}
			start = sql.NullTime{Time: fromEpoch(v.Sub.Start), Valid: true}
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO vehicles (plate, location, subscription_months, subscription_start) VALUES ($1, $2, $3, $4)`,
			v.Plate, location, months, start)
		if err != nil {
			return fmt.Errorf("failed to save vehicle %s: %w", v.Plate, err)
		}
		for _, tk := range v.Tickets {
			_, err := tx.ExecContext(ctx, `INSERT INTO tickets (plate, arrival) VALUES ($1, $2)`, tk.Plate, fromEpoch(tk.Arrival))
			if err != nil {
				return fmt.Errorf("failed to save ticket for %s: %w", v.Plate, err)
			}
		}
	}
	return nil
}
