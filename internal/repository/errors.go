package repository

import (
	"errors"

	"github.com/lib/pq"
)

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

func isForeignKeyViolation(err error) bool { return pqCode(err) == "23503" }
