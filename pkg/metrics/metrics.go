package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus метрик сервиса
// Все методы безопасны для вызова на nil (метрики выключены)
type Metrics struct {
	service string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	ReservationOutcomes *prometheus.CounterVec
	BundleRedemptions   *prometheus.CounterVec
	Notifications       *prometheus.CounterVec
}

// New создает метрики и регистрирует их в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики в указанном registerer (удобно в тестах)
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		service: serviceName,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database operations",
		}, []string{"service", "operation"}),
		DBConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections",
			Help: "Database connection pool state",
		}, []string{"service", "state"}),
		ReservationOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reservation_operations_total",
			Help: "Reservation lifecycle operations by outcome",
		}, []string{"service", "operation", "outcome"}),
		BundleRedemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bundle_redemptions_total",
			Help: "Bundle redemption counter changes",
		}, []string{"service", "direction"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Published reservation notifications by outcome",
		}, []string{"service", "type", "outcome"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBConnections,
		m.ReservationOutcomes,
		m.BundleRedemptions,
		m.Notifications,
	)

	return m
}

// ObserveHTTP записывает метрики HTTP запроса
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.service, method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.service, method, route).Observe(d.Seconds())
}

// ObserveDB записывает длительность операции с БД
func (m *Metrics) ObserveDB(operation string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(m.service, operation).Observe(d.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(m.service, operation).Inc()
	}
}

// SetDBConnections обновляет состояние пула соединений
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.DBConnections.WithLabelValues(m.service, "open").Set(float64(open))
	m.DBConnections.WithLabelValues(m.service, "in_use").Set(float64(inUse))
	m.DBConnections.WithLabelValues(m.service, "idle").Set(float64(idle))
}

// IncReservationOutcome учитывает результат операции с бронированием
// operation: create, update, reschedule, cancel, complete, book_bundle
// outcome: success, conflict, not_found, rejected, error
func (m *Metrics) IncReservationOutcome(operation, outcome string) {
	if m == nil {
		return
	}
	m.ReservationOutcomes.WithLabelValues(m.service, operation, outcome).Inc()
}

// IncBundleRedemption учитывает изменение счетчика погашений пакета (up / down)
func (m *Metrics) IncBundleRedemption(direction string) {
	if m == nil {
		return
	}
	m.BundleRedemptions.WithLabelValues(m.service, direction).Inc()
}

// IncNotification учитывает отправку уведомления
func (m *Metrics) IncNotification(eventType, outcome string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(m.service, eventType, outcome).Inc()
}
