package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/muratoffalex/urlregex/internal/config"
)

type logrusLogger struct {
	entry logrus.Ext1FieldLogger
}

// NewLogrusLogger builds the command logger. Entries go to out, or to
// stderr when out is nil, since standard output carries the results. Only
// the debug levels carry timestamps.
func NewLogrusLogger(cfg *config.LoggingConfig, out io.Writer) Logger {
	if out == nil {
		out = os.Stderr
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(newFormatter(cfg.IsDebug()))
	l.SetLevel(parseLevel(l, cfg.Level()))

	if cfg.WriteInFile {
		if file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666); err == nil {
			l.SetOutput(io.MultiWriter(out, file))
		} else {
			l.WithError(err).WithField("file_path", cfg.FilePath).Warn("Failed to log to file, using stderr only")
		}
	}

	return &logrusLogger{entry: l.WithField("app", "urlregex")}
}

func newFormatter(debug bool) logrus.Formatter {
	if debug {
		return &logrus.TextFormatter{
			DisableQuote:    true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		}
	}
	return &logrus.TextFormatter{
		DisableQuote:     true,
		DisableTimestamp: true,
	}
}

func parseLevel(l *logrus.Logger, name string) logrus.Level {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		l.WithField("log_level", name).Warn("Log level not found. Fallback to 'warn'")
		return logrus.WarnLevel
	}
	return level
}

func (l *logrusLogger) Trace(args ...any) { l.entry.Trace(args...) }
func (l *logrusLogger) Debug(args ...any) { l.entry.Debug(args...) }
func (l *logrusLogger) Info(args ...any)  { l.entry.Info(args...) }
func (l *logrusLogger) Warn(args ...any)  { l.entry.Warn(args...) }
func (l *logrusLogger) Error(args ...any) { l.entry.Error(args...) }
func (l *logrusLogger) Fatal(args ...any) { l.entry.Fatal(args...) }

func (l *logrusLogger) Debugf(format string, args ...any) {
	l.entry.Debugf(format, args...)
}

func (l *logrusLogger) Warnf(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

func (l *logrusLogger) WithFields(fields Fields) Logger {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *logrusLogger) WithField(key string, value any) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

func (l *logrusLogger) WithError(err error) Logger {
	return &logrusLogger{entry: l.entry.WithError(err)}
}
