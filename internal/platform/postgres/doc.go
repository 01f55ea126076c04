// Package postgres provides PostgreSQL-backed implementations of the
// persistence interfaces defined in the store package. Each store accepts
// a store.DBTX so it can run against either a *sql.DB connection pool or
// an in-flight *sql.Tx, and exposes WithTx for composing multiple stores
// into one transaction.
package postgres
