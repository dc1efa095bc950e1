// pkg/db/mysql.go
// Helper koneksi MySQL (menggunakan database/sql)

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLDSN builds the DSN from parts when no explicit DSN is given.
func MySQLDSN(o Options) string {
	if o.DSN != "" {
		return o.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&multiStatements=false",
		o.User, o.Password, o.Host, o.Port, o.Name)
}

func openMySQL(o Options) (*sql.DB, error) {
	return sql.Open("mysql", MySQLDSN(o))
}
