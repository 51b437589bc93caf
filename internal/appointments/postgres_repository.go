package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicware/agenda/internal/scheduling"
)

const appointmentColumns = `id, client_id, client_name, service, starts_at, ends_at, status, responsible_id, notes, reminders_sent, created_at`

// pgDB is the slice of pgx the repository needs, injectable for tests.
type pgDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db pgDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db pgDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new row with a generated id.
func (r *PostgresRepository) Create(ctx context.Context, appt scheduling.Appointment) (scheduling.Appointment, error) {
	appt.ID = uuid.New().String()
	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		appt.ID,
		appt.ClientID,
		appt.ClientName,
		appt.Service,
		appt.StartsAt,
		appt.EndsAt,
		string(appt.Status),
		appt.ResponsibleID,
		appt.Notes,
		appt.RemindersSent,
		appt.CreatedAt,
	)
	if err != nil {
		return scheduling.Appointment{}, fmt.Errorf("appointments: insert failed: %w", err)
	}
	return appt, nil
}

// GetByID fetches one appointment.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (scheduling.Appointment, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	return scanAppointment(row)
}

// UpdateStatus persists a status change and returns the updated row.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status scheduling.Status) (scheduling.Appointment, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE appointments SET status = $2 WHERE id = $1 RETURNING `+appointmentColumns,
		id, string(status))
	return scanAppointment(row)
}

// UpdateWindow persists a new window and returns the updated row.
func (r *PostgresRepository) UpdateWindow(ctx context.Context, id string, startsAt, endsAt time.Time) (scheduling.Appointment, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE appointments SET starts_at = $2, ends_at = $3 WHERE id = $1 RETURNING `+appointmentColumns,
		id, startsAt, endsAt)
	return scanAppointment(row)
}

// ListBetween returns appointments with starts_at in [from, to).
func (r *PostgresRepository) ListBetween(ctx context.Context, from, to time.Time) ([]scheduling.Appointment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+appointmentColumns+` FROM appointments
		 WHERE starts_at >= $1 AND starts_at < $2
		 ORDER BY starts_at`, from, to)
	if err != nil {
		return nil, fmt.Errorf("appointments: list between: %w", err)
	}
	return scanAppointments(rows)
}

// ListByResponsible returns appointments for one staff member whose
// windows intersect [from, to).
func (r *PostgresRepository) ListByResponsible(ctx context.Context, responsibleID string, from, to time.Time) ([]scheduling.Appointment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+appointmentColumns+` FROM appointments
		 WHERE responsible_id = $1 AND starts_at < $3 AND ends_at > $2
		 ORDER BY starts_at`, responsibleID, from, to)
	if err != nil {
		return nil, fmt.Errorf("appointments: list by responsible: %w", err)
	}
	return scanAppointments(rows)
}

func scanAppointment(row pgx.Row) (scheduling.Appointment, error) {
	var (
		appt   scheduling.Appointment
		status string
	)
	err := row.Scan(
		&appt.ID,
		&appt.ClientID,
		&appt.ClientName,
		&appt.Service,
		&appt.StartsAt,
		&appt.EndsAt,
		&status,
		&appt.ResponsibleID,
		&appt.Notes,
		&appt.RemindersSent,
		&appt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return scheduling.Appointment{}, scheduling.ErrAppointmentNotFound
		}
		return scheduling.Appointment{}, fmt.Errorf("appointments: scan row: %w", err)
	}
	appt.Status = scheduling.Status(status)
	return appt, nil
}

func scanAppointments(rows pgx.Rows) ([]scheduling.Appointment, error) {
	defer rows.Close()
	var out []scheduling.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate rows: %w", err)
	}
	return out, nil
}
