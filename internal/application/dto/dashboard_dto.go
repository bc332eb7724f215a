package dto

// DashboardResponse métricas agregadas de la empresa para la vista principal.
type DashboardResponse struct {
	TotalProducts    int    `json:"total_products"`
	LowStockProducts int    `json:"low_stock_products"`
	TotalSuppliers   int    `json:"total_suppliers"`
	ActiveUsers      int    `json:"active_users"`
	PurchasesTotal   string `json:"purchases_total"` // decimal serializado
}

// ImportRowError fila rechazada durante una importación.
type ImportRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportResponse resultado de una importación masiva. Una fila fallida nunca
// aborta el resto; Aborted solo es true si el contexto se canceló a mitad.
type ImportResponse struct {
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Aborted  bool             `json:"aborted"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}
