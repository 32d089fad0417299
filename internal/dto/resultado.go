package dto

// Estados de un Resultado.
const (
	EstadoSuccess = "success"
	EstadoWarning = "warning"
	EstadoError   = "error"
)

// Resultado is the structured outcome every business operation reports.
// The presentation layer decides how to render it; Codigo is empty on success.
type Resultado struct {
	Estado  string      `json:"estado"`
	Codigo  string      `json:"codigo,omitempty"`
	Mensaje string      `json:"mensaje"`
	Datos   interface{} `json:"datos,omitempty"`
}

func Exito(mensaje string, datos interface{}) *Resultado {
	return &Resultado{Estado: EstadoSuccess, Mensaje: mensaje, Datos: datos}
}

func Advertencia(codigo, mensaje string) *Resultado {
	return &Resultado{Estado: EstadoWarning, Codigo: codigo, Mensaje: mensaje}
}

func Fallo(codigo, mensaje string) *Resultado {
	return &Resultado{Estado: EstadoError, Codigo: codigo, Mensaje: mensaje}
}
