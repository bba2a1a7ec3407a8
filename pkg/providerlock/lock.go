package providerlock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/servicehub/booking-engine/pkg/metrics"
)

// ErrLockTimeout возвращается, когда блокировку не удалось получить
// за отведенное время. Вызывающий может повторить операцию позже.
var ErrLockTimeout = errors.New("providerlock: lock acquisition timed out")

// Результаты попытки захвата для лейбла метрики
const (
	resultAcquired = "acquired"
	resultTimeout  = "timeout"
	resultCanceled = "canceled"
)

// Manager набор взаимоисключающих блокировок по ключу (ID исполнителя).
// Все мутации бронирований одного исполнителя сериализуются через его
// блокировку; разные исполнители друг друга не блокируют. Ожидание
// ограничено таймаутом, чтобы ни одна операция не висела бесконечно.
type Manager struct {
	mu      sync.Mutex
	locks   map[int64]*entry
	timeout time.Duration
	metrics *metrics.Metrics // nil = метрики выключены
}

// entry блокировка одного ключа со счетчиком ожидающих.
// Канал емкостью 1 выполняет роль мьютекса с возможностью
// ожидания через select.
type entry struct {
	ch   chan struct{}
	refs int
}

// NewManager создает менеджер блокировок с заданным таймаутом ожидания
func NewManager(timeout time.Duration) *Manager {
	return &Manager{
		locks:   make(map[int64]*entry),
		timeout: timeout,
	}
}

// NewManagerWithMetrics создает менеджер блокировок, записывающий
// результаты захвата в Prometheus метрики
func NewManagerWithMetrics(timeout time.Duration, m *metrics.Metrics) *Manager {
	mgr := NewManager(timeout)
	mgr.metrics = m
	return mgr
}

// Acquire захватывает блокировку ключа и возвращает функцию освобождения.
// Возвращает ErrLockTimeout, если блокировка не получена за таймаут,
// либо ошибку контекста при его отмене. Функция освобождения обязана
// быть вызвана ровно один раз на всех путях выхода.
func (m *Manager) Acquire(ctx context.Context, providerID int64) (func(), error) {
	e := m.retain(providerID)

	timer := time.NewTimer(m.timeout)
	defer timer.Stop()

	select {
	case e.ch <- struct{}{}:
		m.observe(resultAcquired)
		var once sync.Once
		release := func() {
			once.Do(func() {
				<-e.ch
				m.release(providerID)
			})
		}
		return release, nil
	case <-timer.C:
		m.observe(resultTimeout)
		m.release(providerID)
		return nil, ErrLockTimeout
	case <-ctx.Done():
		m.observe(resultCanceled)
		m.release(providerID)
		return nil, ctx.Err()
	}
}

// observe записывает результат попытки захвата в метрики
func (m *Manager) observe(result string) {
	if m.metrics == nil {
		return
	}
	m.metrics.ProviderLockWaits.WithLabelValues(result).Inc()
	if result == resultTimeout {
		m.metrics.ProviderLockTimeouts.Inc()
	}
}

// retain возвращает запись ключа, создавая ее при необходимости,
// и увеличивает счетчик использующих
func (m *Manager) retain(providerID int64) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.locks[providerID]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		m.locks[providerID] = e
	}
	e.refs++
	return e
}

// release уменьшает счетчик и удаляет запись, когда она больше не нужна,
// чтобы карта не росла неограниченно с числом исполнителей
func (m *Manager) release(providerID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.locks[providerID]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(m.locks, providerID)
	}
}
