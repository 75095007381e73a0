package logging

import "log/slog"

// Common field names for consistent logging across clients.
const (
	FieldModule   = "module"
	FieldDomain   = "domain"
	FieldEventID  = "event_id"
	FieldDataType = "data_type"
	FieldProfile  = "profile"
	FieldUsername = "username"
	FieldError    = "error"
)

// Module returns a slog attribute naming the client module.
func Module(name string) slog.Attr {
	return slog.String(FieldModule, name)
}

// Domain returns a slog attribute for an event's topic path.
func Domain(domain string) slog.Attr {
	return slog.String(FieldDomain, domain)
}

// EventID returns a slog attribute for an event identifier.
func EventID(id string) slog.Attr {
	return slog.String(FieldEventID, id)
}

// DataType returns a slog attribute for an event's payload tag.
func DataType(dt string) slog.Attr {
	return slog.String(FieldDataType, dt)
}

// Profile returns a slog attribute for a connection profile name.
func Profile(name string) slog.Attr {
	return slog.String(FieldProfile, name)
}

// Username returns a slog attribute for the login username.
func Username(name string) slog.Attr {
	return slog.String(FieldUsername, name)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
