// Package store defines the persistence interfaces consumed by the
// service layer, along with the sentinel errors and transaction helpers
// shared by all store implementations. Concrete implementations live in
// internal/platform/postgres.
package store
