package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// isDuplicateEntry reports whether err is MySQL error 1062 (duplicate
// entry for a unique index).
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
