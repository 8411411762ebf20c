package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang-medicalbackend/apperrors"
	"golang-medicalbackend/models"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
)

const progressTable = "progreso"

var progressColumns = []interface{}{
	"id_progreso",
	"id_usuario",
	"fecha_registro",
	"peso",
	"circunferencia_cintura",
	"comentarios_usuario",
}

// ProgressStore implements progress persistence in Postgres. All statements
// are built as prepared queries with positional arguments.
type ProgressStore struct {
	db      *sql.DB
	builder goqu.DialectWrapper
}

func NewProgressStore(pg *Postgres) *ProgressStore {
	return &ProgressStore{
		db:      pg.DB(),
		builder: goqu.Dialect("postgres"),
	}
}

// Create inserts an entry and returns its id_progreso. fecha_registro is
// left to the column default.
func (s *ProgressStore) Create(ctx context.Context, in models.ProgressCreate) (int64, error) {
	if in.IDUsuario == nil || in.Peso == nil {
		return 0, apperrors.NewValidationError("id_usuario and peso are required")
	}

	query, args, err := s.builder.Insert(progressTable).Prepared(true).
		Rows(goqu.Record{
			"id_usuario":             *in.IDUsuario,
			"peso":                   *in.Peso,
			"circunferencia_cintura": nullFloat(in.CircunferenciaCintura),
			"comentarios_usuario":    nullString(in.ComentariosUsuario),
		}).
		Returning("id_progreso").
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build progress insert query", err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, apperrors.NewInternalError("failed to create progress entry", err)
	}
	return id, nil
}

// ListByUser returns the user's entries, most recent fecha_registro first.
func (s *ProgressStore) ListByUser(ctx context.Context, userID int64) ([]models.Progress, error) {
	query, args, err := s.builder.From(progressTable).Prepared(true).
		Select(progressColumns...).
		Where(goqu.C("id_usuario").Eq(userID)).
		Order(goqu.C("fecha_registro").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build progress list query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query progress entries", err)
	}
	defer rows.Close()

	entries := []models.Progress{}
	for rows.Next() {
		entry, err := scanProgress(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan progress entry", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate progress entries", err)
	}
	return entries, nil
}

// Get returns a single entry by id_progreso.
func (s *ProgressStore) Get(ctx context.Context, id int64) (*models.Progress, error) {
	query, args, err := s.builder.From(progressTable).Prepared(true).
		Select(progressColumns...).
		Where(goqu.C("id_progreso").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build progress query", err)
	}

	entry, err := scanProgress(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get progress entry", err)
	}
	return entry, nil
}

// Update replaces peso, circunferencia_cintura and comentarios_usuario.
func (s *ProgressStore) Update(ctx context.Context, id int64, in models.ProgressUpdate) error {
	if in.Peso == nil {
		return apperrors.NewValidationError("peso is required")
	}

	query, args, err := s.builder.Update(progressTable).Prepared(true).
		Set(goqu.Record{
			"peso":                   *in.Peso,
			"circunferencia_cintura": nullFloat(in.CircunferenciaCintura),
			"comentarios_usuario":    nullString(in.ComentariosUsuario),
		}).
		Where(goqu.C("id_progreso").Eq(id)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build progress update query", err)
	}

	return s.execAffectingOne(ctx, id, "update", query, args)
}

// Delete removes an entry by id_progreso.
func (s *ProgressStore) Delete(ctx context.Context, id int64) error {
	query, args, err := s.builder.Delete(progressTable).Prepared(true).
		Where(goqu.C("id_progreso").Eq(id)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build progress delete query", err)
	}

	return s.execAffectingOne(ctx, id, "delete", query, args)
}

func (s *ProgressStore) execAffectingOne(ctx context.Context, id int64, op, query string, args []interface{}) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to %s progress entry", op), err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to read affected rows", err)
	}
	if affected == 0 {
		return notFound(id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProgress(row rowScanner) (*models.Progress, error) {
	var (
		entry   models.Progress
		cintura sql.NullFloat64
		coment  sql.NullString
	)
	if err := row.Scan(&entry.IDProgreso, &entry.IDUsuario, &entry.FechaRegistro, &entry.Peso, &cintura, &coment); err != nil {
		return nil, err
	}
	if cintura.Valid {
		entry.CircunferenciaCintura = &cintura.Float64
	}
	if coment.Valid {
		entry.ComentariosUsuario = &coment.String
	}
	return &entry, nil
}

func notFound(id int64) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("progress entry %d not found", id))
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
