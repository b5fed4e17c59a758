package main

import (
	"io"
	"time"

	"github.com/uber-go/tally"
	"go.uber.org/zap"
)

// statsInterval is how often metrics are flushed to the log.
const statsInterval = time.Minute

// newStatsScope creates the root metrics scope. Values are reported to the
// log; the returned closer flushes the last interval.
func newStatsScope(logger *zap.Logger) (tally.Scope, io.Closer) {
	return tally.NewRootScope(tally.ScopeOptions{
		Prefix:   appName,
		Reporter: &logReporter{logger: logger.Named("stats")},
	}, statsInterval)
}

// logReporter writes tally metrics as debug log entries.
type logReporter struct {
	logger *zap.Logger
}

var _ tally.StatsReporter = (*logReporter)(nil)

func (r *logReporter) ReportCounter(name string, tags map[string]string, value int64) {
	r.logger.Debug("counter", zap.String("name", name), zap.Any("tags", tags), zap.Int64("value", value))
}

func (r *logReporter) ReportGauge(name string, tags map[string]string, value float64) {
	r.logger.Debug("gauge", zap.String("name", name), zap.Any("tags", tags), zap.Float64("value", value))
}

func (r *logReporter) ReportTimer(name string, tags map[string]string, interval time.Duration) {
	r.logger.Debug("timer", zap.String("name", name), zap.Any("tags", tags), zap.Duration("value", interval))
}

func (r *logReporter) ReportHistogramValueSamples(
	name string,
	tags map[string]string,
	_ tally.Buckets,
	bucketLowerBound, bucketUpperBound float64,
	samples int64,
) {
	r.logger.Debug("histogram",
		zap.String("name", name),
		zap.Any("tags", tags),
		zap.Float64("lower", bucketLowerBound),
		zap.Float64("upper", bucketUpperBound),
		zap.Int64("samples", samples))
}

func (r *logReporter) ReportHistogramDurationSamples(
	name string,
	tags map[string]string,
	_ tally.Buckets,
	bucketLowerBound, bucketUpperBound time.Duration,
	samples int64,
) {
	r.logger.Debug("histogram",
		zap.String("name", name),
		zap.Any("tags", tags),
		zap.Duration("lower", bucketLowerBound),
		zap.Duration("upper", bucketUpperBound),
		zap.Int64("samples", samples))
}

func (r *logReporter) Capabilities() tally.Capabilities {
	return r
}

func (r *logReporter) Reporting() bool { return true }

func (r *logReporter) Tagging() bool { return true }

func (r *logReporter) Flush() {}
