// Package mysql binds the relational engine to MySQL/MariaDB through
// github.com/go-sql-driver/mysql.
//
// Connections are opened with parseTime=true so DATETIME columns come
// back as time.Time, and collection fields use the native JSON column
// type.
package mysql
