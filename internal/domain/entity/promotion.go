package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Promotion es un descuento porcentual sobre un producto, acotado por ventana de tiempo.
// Invariante: a lo sumo una promoción activa por producto con ventana solapada
// (verificado al crear, no por constraint de almacenamiento).
type Promotion struct {
	ID                  int64
	ProductoID          int64
	DescuentoPorcentaje decimal.Decimal // 0–100
	FechaInicio         time.Time
	FechaFin            time.Time
	Activa              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// VigenteEn indica si la promoción aplica al instante dado.
func (p *Promotion) VigenteEn(ahora time.Time) bool {
	return p.Activa && !p.FechaInicio.After(ahora) && !p.FechaFin.Before(ahora)
}

// Solapa implementa el test estándar de solape de intervalos:
// NOT(fin < otroInicio OR inicio > otroFin).
func (p *Promotion) Solapa(inicio, fin time.Time) bool {
	return !(p.FechaFin.Before(inicio) || p.FechaInicio.After(fin))
}
