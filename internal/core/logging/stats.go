package logging

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/uber-go/tally"
)

// StatsReporter writes tally metrics to a zerolog logger at debug level.
type StatsReporter struct {
	log zerolog.Logger
}

var _ tally.StatsReporter = (*StatsReporter)(nil)

// NewStatsReporter creates a reporter logging to log.
func NewStatsReporter(log zerolog.Logger) *StatsReporter {
	return &StatsReporter{log: log}
}

func (r *StatsReporter) ReportCounter(name string, tags map[string]string, value int64) {
	r.log.Debug().Str("metric", name).Fields(tagFields(tags)).Int64("value", value).Msg("counter")
}

func (r *StatsReporter) ReportGauge(name string, tags map[string]string, value float64) {
	r.log.Debug().Str("metric", name).Fields(tagFields(tags)).Float64("value", value).Msg("gauge")
}

func (r *StatsReporter) ReportTimer(name string, tags map[string]string, interval time.Duration) {
	r.log.Debug().Str("metric", name).Fields(tagFields(tags)).Dur("value", interval).Msg("timer")
}

func (r *StatsReporter) ReportHistogramValueSamples(
	name string,
	tags map[string]string,
	_ tally.Buckets,
	lower, upper float64,
	samples int64,
) {
	r.log.Debug().
		Str("metric", name).
		Fields(tagFields(tags)).
		Float64("lower", lower).
		Float64("upper", upper).
		Int64("samples", samples).
		Msg("histogram")
}

func (r *StatsReporter) ReportHistogramDurationSamples(
	name string,
	tags map[string]string,
	_ tally.Buckets,
	lower, upper time.Duration,
	samples int64,
) {
	r.log.Debug().
		Str("metric", name).
		Fields(tagFields(tags)).
		Dur("lower", lower).
		Dur("upper", upper).
		Int64("samples", samples).
		Msg("histogram")
}

func (r *StatsReporter) Capabilities() tally.Capabilities { return r }

func (r *StatsReporter) Reporting() bool { return true }

func (r *StatsReporter) Tagging() bool { return true }

func (r *StatsReporter) Flush() {}

func tagFields(tags map[string]string) map[string]any {
	out := make(map[string]any, len(tags))
	for k, v := range tags {
		out["tag."+k] = v
	}
	return out
}
