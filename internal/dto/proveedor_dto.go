package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarProveedorRequest struct {
	RUT           string `json:"rut_prov"      validate:"required,max=14"`
	RazonSocial   string `json:"razon_social"  validate:"required,min=2,max=150"`
	Correo        string `json:"correo"        validate:"required,email"`
	Telefono      string `json:"telefono"      validate:"omitempty,max=20"`
	Direccion     string `json:"direccion"     validate:"omitempty,max=200"`
	Representante string `json:"representante" validate:"omitempty,max=120"`
}

// ActualizarProveedorRequest only carries the mutable fields; RUT and
// código cannot be changed.
type ActualizarProveedorRequest struct {
	RazonSocial   string `json:"razon_social"  validate:"required,min=2,max=150"`
	Correo        string `json:"correo"        validate:"required,email"`
	Telefono      string `json:"telefono"      validate:"omitempty,max=20"`
	Direccion     string `json:"direccion"     validate:"omitempty,max=200"`
	Representante string `json:"representante" validate:"omitempty,max=120"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProveedorResponse struct {
	RUT           string `json:"rut_prov"`
	RazonSocial   string `json:"razon_social"`
	Correo        string `json:"correo"`
	Telefono      string `json:"telefono"`
	Direccion     string `json:"direccion"`
	Representante string `json:"representante"`
	Codigo        string `json:"codigo"`
}
