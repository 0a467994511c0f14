package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"detailing_portal_backend/platform/apperr"
)

const (
	clientNotFoundMessage  = "client not found"
	vehicleNotFoundMessage = "vehicle not found"
)

// Postgres implements Store on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new Postgres-backed registry store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Compile-time check that Postgres implements Store.
var _ Store = (*Postgres)(nil)

const clientColumns = `
	c.id, c.first_name, c.last_name, c.email, c.phone,
	c.address, c.company, c.tax_id, c.notes,
	COALESCE(array_agg(vo.vehicle_id) FILTER (WHERE vo.vehicle_id IS NOT NULL), '{}'),
	c.created_at, c.updated_at`

const vehicleColumns = `
	v.id, v.make, v.model, v.year, v.license_plate, v.vin, v.color,
	COALESCE(array_agg(vo.client_id) FILTER (WHERE vo.client_id IS NOT NULL), '{}'),
	v.created_at, v.updated_at`

// ListClients returns all clients in insertion order.
func (r *Postgres) ListClients(ctx context.Context) ([]Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients c
		LEFT JOIN vehicle_owners vo ON vo.client_id = c.id
		GROUP BY c.id
		ORDER BY c.created_at, c.id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	return scanClients(rows)
}

// ListVehicles returns all vehicles in insertion order.
func (r *Postgres) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles v
		LEFT JOIN vehicle_owners vo ON vo.vehicle_id = v.id
		GROUP BY v.id
		ORDER BY v.created_at, v.id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	return scanVehicles(rows)
}

// GetClientByID retrieves a single client.
func (r *Postgres) GetClientByID(ctx context.Context, id uuid.UUID) (Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients c
		LEFT JOIN vehicle_owners vo ON vo.client_id = c.id
		WHERE c.id = $1
		GROUP BY c.id`

	row := r.pool.QueryRow(ctx, query, id)
	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, apperr.NotFound(clientNotFoundMessage)
		}
		return Client{}, fmt.Errorf("get client: %w", err)
	}
	return client, nil
}

// GetVehicleByID retrieves a single vehicle.
func (r *Postgres) GetVehicleByID(ctx context.Context, id uuid.UUID) (Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles v
		LEFT JOIN vehicle_owners vo ON vo.vehicle_id = v.id
		WHERE v.id = $1
		GROUP BY v.id`

	row := r.pool.QueryRow(ctx, query, id)
	vehicle, err := scanVehicle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vehicle{}, apperr.NotFound(vehicleNotFoundMessage)
		}
		return Vehicle{}, fmt.Errorf("get vehicle: %w", err)
	}
	return vehicle, nil
}

// GetVehiclesByOwnerID returns the vehicles owned by the given client,
// in insertion order. An unknown owner id yields an empty list, not an error.
func (r *Postgres) GetVehiclesByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles v
		LEFT JOIN vehicle_owners vo ON vo.vehicle_id = v.id
		WHERE v.id IN (SELECT vehicle_id FROM vehicle_owners WHERE client_id = $1)
		GROUP BY v.id
		ORDER BY v.created_at, v.id`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles by owner: %w", err)
	}
	defer rows.Close()

	return scanVehicles(rows)
}

// CreateClient inserts a client.
func (r *Postgres) CreateClient(ctx context.Context, params CreateClientParams) (Client, error) {
	query := `
		INSERT INTO clients (id, first_name, last_name, email, phone, address, company, tax_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	client := Client{
		ID:         uuid.New(),
		FirstName:  params.FirstName,
		LastName:   params.LastName,
		Email:      params.Email,
		Phone:      params.Phone,
		Address:    params.Address,
		Company:    params.Company,
		TaxID:      params.TaxID,
		Notes:      params.Notes,
		VehicleIDs: []uuid.UUID{},
	}

	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		client.ID, params.FirstName, params.LastName, params.Email, params.Phone,
		params.Address, params.Company, params.TaxID, params.Notes,
	).Scan(&createdAt, &updatedAt); err != nil {
		return Client{}, fmt.Errorf("create client: %w", err)
	}

	client.CreatedAt = createdAt.Format(time.RFC3339)
	client.UpdatedAt = updatedAt.Format(time.RFC3339)
	return client, nil
}

// CreateVehicle inserts a vehicle and its ownership links.
func (r *Postgres) CreateVehicle(ctx context.Context, params CreateVehicleParams) (Vehicle, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Vehicle{}, fmt.Errorf("create vehicle: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO vehicles (id, make, model, year, license_plate, vin, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	vehicle := Vehicle{
		ID:           uuid.New(),
		Make:         params.Make,
		Model:        params.Model,
		Year:         params.Year,
		LicensePlate: params.LicensePlate,
		VIN:          params.VIN,
		Color:        params.Color,
		OwnerIDs:     []uuid.UUID{},
	}

	var createdAt, updatedAt time.Time
	if err := tx.QueryRow(ctx, query,
		vehicle.ID, params.Make, params.Model, params.Year, params.LicensePlate, params.VIN, params.Color,
	).Scan(&createdAt, &updatedAt); err != nil {
		return Vehicle{}, fmt.Errorf("create vehicle: %w", err)
	}

	for _, ownerID := range params.OwnerIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO vehicle_owners (vehicle_id, client_id) VALUES ($1, $2)`,
			vehicle.ID, ownerID,
		); err != nil {
			return Vehicle{}, fmt.Errorf("create vehicle owner link: %w", err)
		}
		vehicle.OwnerIDs = append(vehicle.OwnerIDs, ownerID)
	}

	if err := tx.Commit(ctx); err != nil {
		return Vehicle{}, fmt.Errorf("create vehicle: %w", err)
	}

	vehicle.CreatedAt = createdAt.Format(time.RFC3339)
	vehicle.UpdatedAt = updatedAt.Format(time.RFC3339)
	return vehicle, nil
}

// AssignOwner links a client to a vehicle. Idempotent.
func (r *Postgres) AssignOwner(ctx context.Context, vehicleID, clientID uuid.UUID) error {
	query := `
		INSERT INTO vehicle_owners (vehicle_id, client_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	if _, err := r.pool.Exec(ctx, query, vehicleID, clientID); err != nil {
		return fmt.Errorf("assign owner: %w", err)
	}
	return nil
}

// RemoveOwner unlinks a client from a vehicle.
func (r *Postgres) RemoveOwner(ctx context.Context, vehicleID, clientID uuid.UUID) error {
	query := `DELETE FROM vehicle_owners WHERE vehicle_id = $1 AND client_id = $2`
	result, err := r.pool.Exec(ctx, query, vehicleID, clientID)
	if err != nil {
		return fmt.Errorf("remove owner: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("ownership link not found")
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanClient(row scannable) (Client, error) {
	var c Client
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Address, &c.Company, &c.TaxID, &c.Notes,
		&c.VehicleIDs, &createdAt, &updatedAt,
	); err != nil {
		return Client{}, err
	}
	c.CreatedAt = createdAt.Format(time.RFC3339)
	c.UpdatedAt = updatedAt.Format(time.RFC3339)
	return c, nil
}

func scanClients(rows pgx.Rows) ([]Client, error) {
	clients := make([]Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func scanVehicle(row scannable) (Vehicle, error) {
	var v Vehicle
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&v.ID, &v.Make, &v.Model, &v.Year, &v.LicensePlate, &v.VIN, &v.Color,
		&v.OwnerIDs, &createdAt, &updatedAt,
	); err != nil {
		return Vehicle{}, err
	}
	v.CreatedAt = createdAt.Format(time.RFC3339)
	v.UpdatedAt = updatedAt.Format(time.RFC3339)
	return v, nil
}

func scanVehicles(rows pgx.Rows) ([]Vehicle, error) {
	vehicles := make([]Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}
