package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	service string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration     *prometheus.HistogramVec
	DBQueryErrors       *prometheus.CounterVec
	DBOpenConnections   *prometheus.GaugeVec
	DBInUseConnections  *prometheus.GaugeVec
	DBIdleConnections   *prometheus.GaugeVec
	DBWaitCount         *prometheus.GaugeVec
	DBTransactionsTotal *prometheus.CounterVec

	BookingsTotal     *prometheus.CounterVec
	AvailabilitySlots *prometheus.HistogramVec
	CacheRequests     *prometheus.CounterVec
}

// Методы Metrics безопасно вызывать на nil (метрики выключены).
//
// New создает и регистрирует метрики в prometheus.DefaultRegisterer.
// Повторный вызов возвращает уже зарегистрированные коллекторы.
func New(service string) *Metrics {
	return &Metrics{
		service: service,
		HTTPRequestsTotal: register(prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"})),
		HTTPRequestDuration: register(prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"})),
		DBQueryDuration: register(prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"service", "operation"})),
		DBQueryErrors: register(prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"})),
		DBOpenConnections: register(prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"})),
		DBInUseConnections: register(prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"})),
		DBIdleConnections: register(prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"})),
		DBWaitCount: register(prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"})),
		DBTransactionsTotal: register(prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_transactions_total",
			Help: "Total number of transactions by result",
		}, []string{"service", "isolation", "result"})),
		BookingsTotal: register(prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Booking attempts by outcome (created, conflict, invalid, unavailable, error)",
		}, []string{"service", "outcome"})),
		AvailabilitySlots: register(prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "availability_slots_returned",
			Help:    "Number of slots returned by an availability query",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"service"})),
		CacheRequests: register(prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_cache_requests_total",
			Help: "Availability cache lookups by result (hit, miss, error)",
		}, []string{"service", "result"})),
	}
}

// Service имя сервиса, которым помечаются метрики
func (m *Metrics) Service() string {
	if m == nil {
		return ""
	}
	return m.service
}

// ObserveHTTPRequest фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.service, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.service, method, path).Observe(duration.Seconds())
}

// ObserveQuery фиксирует выполнение запроса к БД
func (m *Metrics) ObserveQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(m.service, operation).Inc()
	}
}

// ObserveTransaction фиксирует результат транзакции (commit, rollback, error)
func (m *Metrics) ObserveTransaction(isolation, result string) {
	if m == nil {
		return
	}
	m.DBTransactionsTotal.WithLabelValues(m.service, isolation, result).Inc()
}

// RecordBooking фиксирует исход попытки бронирования
func (m *Metrics) RecordBooking(outcome string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(m.service, outcome).Inc()
}

// RecordAvailability фиксирует количество слотов в ответе
func (m *Metrics) RecordAvailability(slots int) {
	if m == nil {
		return
	}
	m.AvailabilitySlots.WithLabelValues(m.service).Observe(float64(slots))
}

// RecordCache фиксирует результат обращения к кэшу доступности
func (m *Metrics) RecordCache(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(m.service, result).Inc()
}

func register[T prometheus.Collector](c T) T {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
