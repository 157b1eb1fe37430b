package badgerdb

import "go.uber.org/zap"

// logAdapter routes badger's printf-style logging into zap.
type logAdapter struct {
	s *zap.SugaredLogger
}

func newLogAdapter(l *zap.Logger) *logAdapter {
	return &logAdapter{s: l.Named("badger").Sugar()}
}

func (a *logAdapter) Errorf(format string, args ...any)   { a.s.Errorf(format, args...) }
func (a *logAdapter) Warningf(format string, args ...any) { a.s.Warnf(format, args...) }
func (a *logAdapter) Infof(format string, args ...any)    { a.s.Debugf(format, args...) }
func (a *logAdapter) Debugf(format string, args ...any)   { a.s.Debugf(format, args...) }
