package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// IsDuplicate reports whether err is a MySQL duplicate-key violation. The
// registry and counter layers treat this as "already exists, re-fetch"
// rather than a hard failure.
func IsDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE metacharacters in a value concatenated into a
// pattern. Account names are free-form, so "%" and "_" in a path must match
// themselves, not act as wildcards against sibling paths.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
