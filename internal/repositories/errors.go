package repositories

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/anonto42/socialgraph/backend/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert collides with a unique key.
	ErrDuplicate = errors.New("duplicate key")
	// ErrMissingReference is returned when an insert references a row that
	// does not exist (foreign key violation).
	ErrMissingReference = errors.New("missing referenced record")
)

// translate maps driver level failures onto repository sentinels. Constraint
// violations are detected through gorm's dialect-neutral translated errors
// (gorm.Config.TranslateError) rather than vendor error codes.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrMissingReference, err)
	case isUnavailable(err):
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	default:
		return err
	}
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.Timeout(err) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
