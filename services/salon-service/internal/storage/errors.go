package storage

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/salonflow/salonflow/services/salon-service/internal/apperr"
	"github.com/salonflow/salonflow/services/salon-service/internal/model"
)

const (
	codeExclusionViolation   = "23P01"
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"

	constraintShiftPerDay = "employee_shifts_employee_date_key"
)

func pgCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

func IsConflict(err error) bool {
	code, _ := pgCode(err)
	return code == codeExclusionViolation
}

func IsUniqueViolation(err error) bool {
	code, _ := pgCode(err)
	return code == codeUniqueViolation
}

func IsSerializationFailure(err error) bool {
	code, _ := pgCode(err)
	return code == codeSerializationFailure
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// translate maps driver errors onto the service's error taxonomy. Errors it
// does not recognise are returned unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) {
		return model.ErrNotFound
	}
	code, constraint := pgCode(err)
	switch code {
	case codeExclusionViolation:
		return apperr.ConflictWrap("employee has a conflicting appointment", err)
	case codeUniqueViolation:
		if constraint == constraintShiftPerDay {
			return apperr.ConflictWrap("employee already has a shift assignment for this date", err)
		}
		return apperr.ConflictWrap("record already exists", err)
	case codeSerializationFailure:
		return apperr.ConflictWrap("concurrent update, retry", err)
	case codeForeignKeyViolation:
		return apperr.Validation("referenced record does not exist")
	}
	return err
}
