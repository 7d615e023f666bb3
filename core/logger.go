package core

// Logger is any leveled logger the app can report through.
//
// Implementations may inspect trailing args for known types (errors, an
// admin.Admin, key/value maps) and forward them to their backend.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
