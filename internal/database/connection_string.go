package database

import (
	"fmt"
	"net/url"
	"strings"
)

// pragmas lists the PRAGMAs set through the DSN, in the order SQLite applies them
func (opts *SQLiteOptions) pragmas() []string {
	var out []string
	// busy_timeout first so the remaining PRAGMAs wait on a locked database
	if opts.BusyTimeout > 0 {
		out = append(out, fmt.Sprintf("busy_timeout(%d)", opts.BusyTimeout))
	}
	if opts.Journal != "" {
		out = append(out, fmt.Sprintf("journal_mode(%s)", opts.Journal))
	}
	if opts.Synchronous != "" {
		out = append(out, fmt.Sprintf("synchronous(%s)", opts.Synchronous))
	}
	if opts.ForeignKeys {
		out = append(out, "foreign_keys(1)")
	}
	if opts.CacheSize != 0 {
		out = append(out, fmt.Sprintf("cache_size(%d)", opts.CacheSize))
	}
	return out
}

// buildConnectionString generates a modernc.org/sqlite DSN from options
func (opts *SQLiteOptions) buildConnectionString() string {
	params := url.Values{}

	for _, p := range opts.pragmas() {
		params.Add("_pragma", p)
	}
	if opts.TxLock != "" {
		params.Set("_txlock", string(opts.TxLock))
	}
	if opts.Cache != "" {
		params.Set("cache", string(opts.Cache))
	}
	if opts.Immutable {
		params.Set("immutable", "1")
	}
	if opts.Mode != "" {
		params.Set("mode", opts.Mode)
	}

	connStr := opts.Path
	if !strings.HasPrefix(connStr, "file:") {
		connStr = "file:" + connStr
	}
	if encoded := params.Encode(); encoded != "" {
		connStr += "?" + encoded
	}
	return connStr
}
