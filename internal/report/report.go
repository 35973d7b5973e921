// Package report turns reported wave states into human readable output.
package report

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/san-kum/wavetoy/internal/dynamo"
)

// Console prints each reported state as a header line followed by one
// line per grid point holding u and du/dt.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) OnStep(iter int, s dynamo.State) error {
	if _, err := fmt.Fprintf(c.w, "Iteration %d, time %g\n", iter, s.Time); err != nil {
		return err
	}
	for i := range s.U {
		if _, err := fmt.Fprintf(c.w, "    %d: %g %g\n", i, s.U[i], s.V[i]); err != nil {
			return err
		}
	}
	return nil
}

// Log emits one structured entry per reported state.
type Log struct {
	logger *zap.Logger
}

func NewLog(l *zap.Logger) *Log {
	return &Log{logger: l}
}

func (l *Log) OnStep(iter int, s dynamo.State) error {
	n := s.Len()
	fields := []zap.Field{
		zap.Int("iteration", iter),
		zap.Float64("time", s.Time),
		zap.Int("points", n),
	}
	if n > 0 {
		mid := n / 2
		fields = append(fields, zap.Float64("u_mid", s.U[mid]), zap.Float64("udot_mid", s.V[mid]))
	}
	l.logger.Debug("iteration", fields...)
	return nil
}
