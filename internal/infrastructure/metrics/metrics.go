// Package metrics expone los contadores Prometheus de la aplicación.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MovementsApplied movimientos de inventario registrados, por tipo (in/out).
	MovementsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stocklane",
		Name:      "stock_movements_applied_total",
		Help:      "Movimientos de inventario registrados en el ledger.",
	}, []string{"type"})

	// PolicyDenials denegaciones del motor de autorización, por entidad y acción.
	PolicyDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stocklane",
		Name:      "policy_denials_total",
		Help:      "Acciones denegadas por el motor de políticas.",
	}, []string{"entity", "action"})

	// ImportRows filas procesadas por importaciones CSV, por entidad y resultado.
	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stocklane",
		Name:      "import_rows_total",
		Help:      "Filas procesadas por el importador CSV.",
	}, []string{"entity", "result"})

	// InvitesAccepted invitaciones aceptadas con éxito.
	InvitesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "stocklane",
		Name:      "invites_accepted_total",
		Help:      "Invitaciones aceptadas (perfil creado).",
	})
)
