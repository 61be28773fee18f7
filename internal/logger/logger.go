package logger

// ComponentField names the part of urlregex an entry comes from.
const ComponentField = "component"

const (
	ComponentApp     = "app"
	ComponentExtract = "extract"
	ComponentNetwork = "network"
)

type Fields map[string]any

type Logger interface {
	Trace(args ...any)
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Fatal(args ...any)

	Debugf(format string, args ...any)
	Warnf(format string, args ...any)

	WithFields(fields Fields) Logger
	WithField(key string, value any) Logger
	WithError(err error) Logger
}

// ForComponent tags every entry of the returned logger with the component.
func ForComponent(l Logger, component string) Logger {
	return l.WithField(ComponentField, component)
}
