package assets

import "log/slog"

// RecordOption configures a record at creation time.
// Use with [Insert], [Load] and [Generate]:
//
//	h := assets.Insert(store, mesh, assets.WithName("fox"))
type RecordOption func(*recordOptions)

// recordOptions holds optional per-record configuration.
type recordOptions struct {
	name string
}

// WithName attaches a human-readable name to the record, reported in
// diagnostics, enumeration and log output. Names carry no uniqueness
// requirement; identity is always the record ID.
func WithName(name string) RecordOption {
	return func(o *recordOptions) {
		o.name = name
	}
}

// StoreOption configures a [Store] during creation.
type StoreOption func(*storeOptions)

// storeOptions holds optional configuration for Store creation.
type storeOptions struct {
	logger *slog.Logger
}

// WithLogger sets a store-specific logger, overriding the package-level
// logger configured with [SetLogger]. Pass nil to silence this store only.
func WithLogger(l *slog.Logger) StoreOption {
	return func(o *storeOptions) {
		if l == nil {
			l = newNopLogger()
		}
		o.logger = l
	}
}
