// Package db opens the PostgreSQL pool, applies the embedded schema
// migrations and provides a transaction helper.
package db
