package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a JSON logger at the given level. Unknown levels fall back to
// info rather than failing startup.
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}

// WithModule returns an entry tagged with the originating module, so log
// lines from the engine components can be filtered apart.
func WithModule(log *logrus.Logger, module string) *logrus.Entry {
	return log.WithField("module", module)
}
