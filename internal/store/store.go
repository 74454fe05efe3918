// Package store provides the local key-value record store backing the CRM.
// Records are JSON documents keyed by well-known string keys; the store is
// the durable mirror of the in-memory collections, not a query engine.
package store

import "errors"

// Well-known record keys.
const (
	KeyUser          = "user"
	KeySessionExpiry = "sessionExpiry"
	KeyLeads         = "crm_leads"
	KeyLeadNotes     = "lead_notes"
	KeyPatients      = "crm_patients"
	KeyTheme         = "theme"
)

// ThemeDefault is the only supported theme value. The dashboard ships a
// single visual theme; the key exists so the layout survives restarts.
const ThemeDefault = "light"

// ErrKeyNotFound indicates the requested key holds no record.
var ErrKeyNotFound = errors.New("store: key not found")

// RecordStore is a minimal string-keyed document store.
type RecordStore interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}
