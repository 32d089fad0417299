package handler

import (
	"strconv"
	"strings"

	"almacen/internal/apierror"
	"almacen/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		responderError(c, apierror.Validation("JSON invalido"))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		responderError(c, apierror.Validation("Solicitud invalida"))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = fe.Tag()
	}
	res := dto.Fallo(string(apierror.CodeValidation), "Error de validacion")
	res.Datos = fields
	c.JSON(apierror.CodeValidation.HTTPStatus(), res)
	return false
}

// responderError writes the outcome for a service error. Typed errors map
// to their status; anything else is attached to the context so the
// ErrorHandler middleware logs it and answers 500.
func responderError(c *gin.Context, err error) {
	e := apierror.As(err)
	if e == nil {
		_ = c.Error(err)
		return
	}
	c.JSON(e.Code.HTTPStatus(), dto.Fallo(string(e.Code), e.Message))
}

// responderResultado writes a structured outcome. Warnings carry their
// code's status (ALREADY_FULFILLED is 200).
func responderResultado(c *gin.Context, status int, r *dto.Resultado) {
	if r.Estado == dto.EstadoWarning {
		status = apierror.Code(r.Codigo).HTTPStatus()
	}
	c.JSON(status, r)
}

// paramCodigo parses a positive integer path parameter.
func paramCodigo(c *gin.Context, name string) (int, bool) {
	codigo, err := strconv.Atoi(c.Param(name))
	if err != nil || codigo <= 0 {
		responderError(c, apierror.Validation("Código invalido"))
		return 0, false
	}
	return codigo, true
}

// paramCodigoOpcional accepts 0 so the service can report a missing order
// code as not found; only non-numeric and negative values are rejected.
func paramCodigoOpcional(c *gin.Context, name string) (int, bool) {
	codigo, err := strconv.Atoi(c.Param(name))
	if err != nil || codigo < 0 {
		responderError(c, apierror.Validation("Código invalido"))
		return 0, false
	}
	return codigo, true
}
