// Package events define el bus de notificaciones de cambios de inventario.
// El ledger publica eventos tras confirmar la transacción; los suscriptores
// (logging de alertas, refresco de dashboard) reaccionan fuera del camino
// crítico de la escritura. El bus está desacoplado del transporte HTTP.
package events

import (
	"sync"
	"time"
)

// StockChanged se publica después de cada movimiento confirmado.
type StockChanged struct {
	CompanyID  string
	ProductID  string
	Type       string // in | out
	Quantity   int64
	NewStock   int64
	BatchID    *string
	OccurredAt time.Time
}

// LowStock se publica cuando el stock resultante queda en o bajo el nivel
// de reorden del producto.
type LowStock struct {
	CompanyID    string
	ProductID    string
	ProductName  string
	CurrentStock int64
	ReorderLevel int64
	OccurredAt   time.Time
}

// Bus contrato de publicación que consumen los casos de uso de inventario.
type Bus interface {
	PublishStockChanged(e StockChanged)
	PublishLowStock(e LowStock)
}

// Subscriber recibe los eventos publicados. Los callbacks se invocan de forma
// síncrona y en orden de suscripción; un suscriptor lento frena al resto, así
// que los handlers deben ser baratos (log, contador, señal a un canal).
type Subscriber interface {
	OnStockChanged(e StockChanged)
	OnLowStock(e LowStock)
}

var _ Bus = (*InMemoryBus)(nil)

// InMemoryBus implementación in-process del bus. Segura para uso concurrente.
type InMemoryBus struct {
	mu   sync.RWMutex
	subs []Subscriber
}

// NewInMemoryBus construye un bus vacío.
func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{}
}

// Subscribe registra un suscriptor. No hay desuscripción: el conjunto de
// suscriptores se fija durante el arranque.
func (b *InMemoryBus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, s)
}

// PublishStockChanged notifica a todos los suscriptores.
func (b *InMemoryBus) PublishStockChanged(e StockChanged) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs {
		s.OnStockChanged(e)
	}
}

// PublishLowStock notifica a todos los suscriptores.
func (b *InMemoryBus) PublishLowStock(e LowStock) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs {
		s.OnLowStock(e)
	}
}

// NopBus descarta todos los eventos. Útil en tests de casos de uso que no
// verifican notificaciones.
type NopBus struct{}

func (NopBus) PublishStockChanged(StockChanged) {}
func (NopBus) PublishLowStock(LowStock)         {}
