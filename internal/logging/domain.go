package logging

import "github.com/sirupsen/logrus"

// Domain will return a new logger for a specified domain
func Domain(domain string, lvl logrus.Level) *logrus.Logger {
	logger := Copy()
	logger.Level = lvl
	// keep the domain hook off of the standard logger
	logger.Hooks = make(logrus.LevelHooks)
	for level, hooks := range logrus.StandardLogger().Hooks {
		logger.Hooks[level] = append([]logrus.Hook{}, hooks...)
	}
	logger.AddHook(&DomainHook{
		Level:  lvl,
		Domain: domain,
	})
	return logger
}

// DomainHook is a logrus hook that will log with a
// spesific prefix
type DomainHook struct {
	Level  logrus.Level
	Domain string
	Info   interface{}
}

// Levels returns the levels that the domain logs to
func (dh *DomainHook) Levels() []logrus.Level {
	return logrus.AllLevels[:dh.Level+1]
}

// Fire will fire off the hook
func (dh *DomainHook) Fire(e *logrus.Entry) error {
	if dh.Info == nil {
		e.Data["domain"] = dh.Domain
	} else {
		e.Data[dh.Domain] = dh.Info
	}
	return nil
}
