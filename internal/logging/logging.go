package logging

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

type serviceHook struct {
	name string
}

func (h *serviceHook) Levels() []log.Level {
	return log.AllLevels
}

func (h *serviceHook) Fire(entry *log.Entry) error {
	entry.Data["service"] = h.name
	return nil
}

// Init configures the standard logrus logger used across the service.
func Init(service, level string) {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		log.Warnf("invalid log level %q, defaulting to info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.AddHook(&serviceHook{name: service})
}
