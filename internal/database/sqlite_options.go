package database

// SynchronousMode represents the available synchronous settings for SQLite
type SynchronousMode string

const (
	SynchronousOff    SynchronousMode = "OFF"
	SynchronousNormal SynchronousMode = "NORMAL"
	SynchronousFull   SynchronousMode = "FULL"
	SynchronousExtra  SynchronousMode = "EXTRA"
)

// JournalMode represents the available journal modes for SQLite
type JournalMode string

const (
	JournalDelete   JournalMode = "DELETE"
	JournalTruncate JournalMode = "TRUNCATE"
	JournalMemory   JournalMode = "MEMORY"
	JournalWAL      JournalMode = "WAL"
	JournalOff      JournalMode = "OFF"
)

// CacheMode represents the available cache modes for SQLite
type CacheMode string

const (
	CacheShared  CacheMode = "shared"
	CachePrivate CacheMode = "private"
)

// TxLock is the lock taken by BEGIN
type TxLock string

const (
	TxLockDeferred  TxLock = "deferred"
	TxLockImmediate TxLock = "immediate"
	TxLockExclusive TxLock = "exclusive"
)

// SQLiteOptions configures the session database.
// PRAGMAs are passed through the DSN so every pooled connection gets them.
type SQLiteOptions struct {
	Path string

	Mode        string // ro, rw, rwc, memory
	Cache       CacheMode
	Immutable   bool
	TxLock      TxLock
	Journal     JournalMode
	Synchronous SynchronousMode
	ForeignKeys bool
	BusyTimeout int // milliseconds
	CacheSize   int // pages, negative for KiB
}

// NewDefaultOptions creates SQLiteOptions with recommended defaults
func NewDefaultOptions(path string) SQLiteOptions {
	return SQLiteOptions{
		Path:        path,
		Mode:        "rwc",
		Cache:       CachePrivate,
		TxLock:      TxLockImmediate,
		Journal:     JournalWAL,
		Synchronous: SynchronousNormal,
		ForeignKeys: true,
		BusyTimeout: 5000,
		CacheSize:   -2000,
	}
}
