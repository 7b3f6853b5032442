package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/collconv"
)

var _ collconv.Logger = Logger{}

// Logger adapts a *logrus.Entry.
type Logger struct{ E *logrus.Entry }

// New tags every entry with component=collconv.
func New(l *logrus.Logger) Logger {
	return Logger{E: l.WithField("component", "collconv")}
}

func (l Logger) Debug(msg string, f collconv.Fields) { l.E.WithFields(logrus.Fields(f)).Debug(msg) }
func (l Logger) Info(msg string, f collconv.Fields)  { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l Logger) Warn(msg string, f collconv.Fields)  { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l Logger) Error(msg string, f collconv.Fields) { l.E.WithFields(logrus.Fields(f)).Error(msg) }
