package dto

type RegistrarClienteRequest struct {
	RUT        string `json:"rut_clie"   validate:"required,max=14"`
	Nombre     string `json:"nombre"     validate:"required,min=2,max=120"`
	Correo     string `json:"correo"     validate:"required,email"`
	Contrasena string `json:"contrasena" validate:"required,min=6,max=72"`
	Direccion  string `json:"direccion"  validate:"omitempty,max=200"`
	// Edad is range-checked by the service so a negative value is reported
	// as INVALID_AGE rather than a generic validation error.
	Edad int `json:"edad"`
}

type ClienteResponse struct {
	RUT       string `json:"rut_clie"`
	Nombre    string `json:"nombre"`
	Correo    string `json:"correo"`
	Direccion string `json:"direccion"`
	Edad      int    `json:"edad"`
}
