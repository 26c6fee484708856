package connectivity

// Logger is satisfied by *logrus.Entry
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(format string, args ...interface{}) {}
func (noopLogger) Warnf(format string, args ...interface{}) {}
