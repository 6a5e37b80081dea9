// Package zapbridge connects the sink package to go.uber.org/zap, so
// zap loggers can write through rotating file sinks.
//
// Sinks are not safe for concurrent use, so every adapter returned
// here serializes access with zapcore.Lock. The caller keeps ownership
// of the sink and closes it after the final log call:
//
//	s, _ := sink.NewRotatingFileSink(sink.RotatingConfig{
//	    Path:         "app.log",
//	    MaxFileBytes: 10 << 20,
//	    MaxBackups:   5,
//	})
//	log := zapbridge.NewLogger(s)
//	defer s.Close()
//	defer log.Sync()
package zapbridge

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rotolog/rotolog/sink"
)

// sinkSyncer adapts a sink.Sink to zapcore.WriteSyncer. Sync maps to
// Flush: bytes reach the operating system, which is the same guarantee
// the file handlers give.
type sinkSyncer struct {
	s sink.Sink
}

func (w *sinkSyncer) Write(p []byte) (int, error) {
	return w.s.Write(p)
}

func (w *sinkSyncer) Sync() error {
	return w.s.Flush()
}

// NewWriteSyncer wraps s for use as a zap output. The returned syncer
// is safe for concurrent use.
func NewWriteSyncer(s sink.Sink) zapcore.WriteSyncer {
	return zapcore.Lock(&sinkSyncer{s: s})
}

// NewCore builds a zapcore.Core that encodes with enc and writes
// through s.
func NewCore(enc zapcore.Encoder, s sink.Sink, enab zapcore.LevelEnabler) zapcore.Core {
	return zapcore.NewCore(enc, NewWriteSyncer(s), enab)
}

// NewLogger builds a production-configured zap.Logger writing JSON
// through s at InfoLevel. For other encoders or levels, compose with
// NewCore.
func NewLogger(s sink.Sink, opts ...zap.Option) *zap.Logger {
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(NewCore(enc, s, zapcore.InfoLevel), opts...)
}
