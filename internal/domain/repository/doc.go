// Package repository declares the persistence contracts of the service.
// Drivers live under internal/store; services depend only on these
// interfaces and sentinel errors.
package repository
