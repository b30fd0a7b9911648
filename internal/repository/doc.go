// Package repository is the PostgreSQL storage behind a dispatch run.
//
// Besides the lookups and after-send updates the dispatcher needs, it
// writes templates and reports template usage so a template referenced by
// a group cannot be deleted. Template reads go through a cache that is
// invalidated on every template write.
package repository
