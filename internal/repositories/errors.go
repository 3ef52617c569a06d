package repositories

import (
	"errors"

	"tiyende/internal/domain"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	errUsernameTaken  = domain.ConflictError{Msg: "Username already exists"}
	errReferenceTaken = domain.ConflictError{Msg: "Booking reference already exists"}
)

// isDuplicateKey recognises unique violations from gorm's translated errors and raw MySQL 1062.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// mapError converts driver errors into domain errors. conflict is returned for unique violations.
func mapError(err error, resource string, conflict error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NotFoundError{Resource: resource, Err: err}
	case isDuplicateKey(err):
		if conflict != nil {
			return conflict
		}
		return domain.ConflictError{Resource: resource, Err: err}
	case domain.IsNotFound(err), domain.IsConflict(err), domain.IsValidation(err):
		return err
	default:
		return domain.InternalError{Msg: "database error", Err: err}
	}
}
