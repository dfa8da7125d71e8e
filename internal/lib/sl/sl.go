// Package sl contains helpers for building structured slog attributes.
package sl

import "log/slog"

// Err returns a slog.Attr with the "error" key and the error text,
// so failures are logged uniformly across the service.
//
// Example:
//
//	log.Error("failed to issue token", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
