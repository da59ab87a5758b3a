package entity

// CostMethod método de costeo de inventario. Solo AVERAGE está implementado.
type CostMethod string

const (
	CostMethodAverage CostMethod = "AVERAGE"
	CostMethodFIFO    CostMethod = "FIFO"
)

// IsSupported indica si el motor de valoración sabe calcular el método.
func (m CostMethod) IsSupported() bool { return m == CostMethodAverage }
