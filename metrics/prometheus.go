// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
package metrics

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Gauge ...
	Gauge instrument = iota
	// Counter ...
	Counter
	// Histogram ...
	Histogram
	// Summary ...
	Summary
)

const namespace = "refchain"

var (
	// ErrInstrumentNotSupported signals the specified instrument is not yet supported.
	ErrInstrumentNotSupported = errors.New("instrument type unsupported")
	// ErrInstrumentTypeMismatch signal the type of the instrument is not expected.
	ErrInstrumentTypeMismatch = errors.New("instrument is not of the expected type")
)

var (
	setupOnce sync.Once
	setupErr  error

	sqlQueryTime          *prometheus.HistogramVec
	sqlQueryCounter       *prometheus.CounterVec
	webhookEventCounter   *prometheus.CounterVec
	settlementCounter     *prometheus.CounterVec
	commissionAmount      *prometheus.CounterVec
	notificationCounter   *prometheus.CounterVec
	notificationQueueSize prometheus.Gauge
	apiRequestTime        *prometheus.HistogramVec
)

// abstract prometheus types.
type instrument int

// combine all possible prometheus options + way to differentiate between regular or vector type.
type instrumentOpts struct {
	opts               prometheus.Opts
	buckets            []float64
	objectives         map[float64]float64
	maxAge             time.Duration
	ageBuckets, bufCap uint32
	vectors            []string
}

type mi struct {
	gaugeV     *prometheus.GaugeVec
	gauge      prometheus.Gauge
	counterV   *prometheus.CounterVec
	counter    prometheus.Counter
	histogramV *prometheus.HistogramVec
	histogram  prometheus.Histogram
	summaryV   *prometheus.SummaryVec
	summary    prometheus.Summary
}

// InstrumentOption - vararg for instrument options setting.
type InstrumentOption func(o *instrumentOpts)

// Vectors - configuration used to create a vector of a given interface, slice of label names.
func Vectors(labels ...string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.vectors = labels
	}
}

// Help - set the help field on instrument.
func Help(help string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Help = help
	}
}

// Namespace - set namespace.
func Namespace(ns string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Namespace = ns
	}
}

// Buckets - specific to histogram type.
func Buckets(b []float64) InstrumentOption {
	return func(o *instrumentOpts) {
		o.buckets = b
	}
}

// AddInstrument configure and register new metrics instrument.
func AddInstrument(reg prometheus.Registerer, t instrument, name string, opts ...InstrumentOption) (*mi, error) {
	var col prometheus.Collector
	ret := mi{}
	opt := instrumentOpts{
		opts: prometheus.Opts{
			Name: name,
		},
	}
	for _, o := range opts {
		o(&opt)
	}
	switch t {
	case Gauge:
		o := prometheus.GaugeOpts(opt.opts)
		if len(opt.vectors) == 0 {
			ret.gauge = prometheus.NewGauge(o)
			col = ret.gauge
		} else {
			ret.gaugeV = prometheus.NewGaugeVec(o, opt.vectors)
			col = ret.gaugeV
		}
	case Counter:
		o := prometheus.CounterOpts(opt.opts)
		if len(opt.vectors) == 0 {
			ret.counter = prometheus.NewCounter(o)
			col = ret.counter
		} else {
			ret.counterV = prometheus.NewCounterVec(o, opt.vectors)
			col = ret.counterV
		}
	case Histogram:
		o := opt.histogram()
		if len(opt.vectors) == 0 {
			ret.histogram = prometheus.NewHistogram(o)
			col = ret.histogram
		} else {
			ret.histogramV = prometheus.NewHistogramVec(o, opt.vectors)
			col = ret.histogramV
		}
	case Summary:
		o := opt.summary()
		if len(opt.vectors) == 0 {
			ret.summary = prometheus.NewSummary(o)
			col = ret.summary
		} else {
			ret.summaryV = prometheus.NewSummaryVec(o, opt.vectors)
			col = ret.summaryV
		}
	default:
		return nil, ErrInstrumentNotSupported
	}
	if err := reg.Register(col); err != nil {
		return nil, err
	}
	return &ret, nil
}

func (i instrumentOpts) summary() prometheus.SummaryOpts {
	return prometheus.SummaryOpts{
		Name:        i.opts.Name,
		Namespace:   i.opts.Namespace,
		Subsystem:   i.opts.Subsystem,
		ConstLabels: i.opts.ConstLabels,
		Help:        i.opts.Help,
		Objectives:  i.objectives,
		MaxAge:      i.maxAge,
		AgeBuckets:  i.ageBuckets,
		BufCap:      i.bufCap,
	}
}

func (i instrumentOpts) histogram() prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Name:        i.opts.Name,
		Namespace:   i.opts.Namespace,
		Subsystem:   i.opts.Subsystem,
		ConstLabels: i.opts.ConstLabels,
		Help:        i.opts.Help,
		Buckets:     i.buckets,
	}
}

// Gauge returns a prometheus Gauge instrument.
func (m mi) Gauge() (prometheus.Gauge, error) {
	if m.gauge == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.gauge, nil
}

// CounterVec returns a prometheus CounterVec instrument.
func (m mi) CounterVec() (*prometheus.CounterVec, error) {
	if m.counterV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counterV, nil
}

func (m mi) HistogramVec() (*prometheus.HistogramVec, error) {
	if m.histogramV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.histogramV, nil
}

// Setup registers every instrument on the default registry. It is safe to
// call more than once.
func Setup() error {
	setupOnce.Do(func() {
		setupErr = setupMetrics(prometheus.DefaultRegisterer)
	})
	return setupErr
}

func setupMetrics(reg prometheus.Registerer) error {
	h, err := AddInstrument(reg,
		Histogram,
		"sql_query_duration_seconds",
		Namespace(namespace),
		Vectors("store", "query"),
		Help("Time spent executing sql queries"),
		Buckets([]float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}),
	)
	if err != nil {
		return err
	}
	if sqlQueryTime, err = h.HistogramVec(); err != nil {
		return err
	}

	h, err = AddInstrument(reg,
		Counter,
		"sql_queries_total",
		Namespace(namespace),
		Vectors("store", "query"),
		Help("Number of sql queries executed"),
	)
	if err != nil {
		return err
	}
	if sqlQueryCounter, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(reg,
		Counter,
		"webhook_events_total",
		Namespace(namespace),
		Vectors("type", "status", "outcome"),
		Help("Number of payment gateway events received"),
	)
	if err != nil {
		return err
	}
	if webhookEventCounter, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(reg,
		Counter,
		"settlements_total",
		Namespace(namespace),
		Vectors("outcome"),
		Help("Number of settlement attempts by outcome"),
	)
	if err != nil {
		return err
	}
	if settlementCounter, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(reg,
		Counter,
		"commission_amount_total",
		Namespace(namespace),
		Vectors("currency", "tier"),
		Help("Sum of commission amounts posted, in minor units"),
	)
	if err != nil {
		return err
	}
	if commissionAmount, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(reg,
		Counter,
		"notifications_total",
		Namespace(namespace),
		Vectors("kind", "outcome"),
		Help("Number of notifications sent by outcome"),
	)
	if err != nil {
		return err
	}
	if notificationCounter, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(reg,
		Gauge,
		"notification_queue_size",
		Namespace(namespace),
		Help("Number of notifications waiting to be sent"),
	)
	if err != nil {
		return err
	}
	if notificationQueueSize, err = h.Gauge(); err != nil {
		return err
	}

	h, err = AddInstrument(reg,
		Histogram,
		"api_request_duration_seconds",
		Namespace(namespace),
		Vectors("route", "code"),
		Help("Time spent serving http requests"),
	)
	if err != nil {
		return err
	}
	apiRequestTime, err = h.HistogramVec()
	return err
}

// StartSQLQuery starts a timer for a query and returns the function to call
// once the query completed.
func StartSQLQuery(store, query string) func() {
	startTime := time.Now()
	return func() {
		if sqlQueryTime == nil || sqlQueryCounter == nil {
			return
		}
		sqlQueryCounter.WithLabelValues(store, query).Inc()
		sqlQueryTime.WithLabelValues(store, query).Observe(time.Since(startTime).Seconds())
	}
}

func WebhookEventInc(eventType, status, outcome string) {
	if webhookEventCounter == nil {
		return
	}
	webhookEventCounter.WithLabelValues(eventType, status, outcome).Inc()
}

func SettlementInc(outcome string) {
	if settlementCounter == nil {
		return
	}
	settlementCounter.WithLabelValues(outcome).Inc()
}

func CommissionAmountAdd(currency, tier string, amount int64) {
	if commissionAmount == nil {
		return
	}
	commissionAmount.WithLabelValues(currency, tier).Add(float64(amount))
}

func NotificationInc(kind, outcome string) {
	if notificationCounter == nil {
		return
	}
	notificationCounter.WithLabelValues(kind, outcome).Inc()
}

func NotificationQueueSizeSet(n int) {
	if notificationQueueSize == nil {
		return
	}
	notificationQueueSize.Set(float64(n))
}

// APIRequestObserve records the duration of an http request.
func APIRequestObserve(route, code string, startTime time.Time) {
	if apiRequestTime == nil {
		return
	}
	apiRequestTime.WithLabelValues(route, code).Observe(time.Since(startTime).Seconds())
}
