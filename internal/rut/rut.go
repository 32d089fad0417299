// Package rut validates and formats Chilean RUT identifiers: a body of digits
// followed by a check character computed with a weighted modulus-11 sum.
package rut

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrVacio   = errors.New("rut vacío")
	ErrFormato = errors.New("rut con formato inválido")
)

// DigitoVerificador computes the check character for a body of digits.
// Weights 2..7 are applied from the rightmost digit and cycle.
func DigitoVerificador(cuerpo string) (string, error) {
	if cuerpo == "" {
		return "", ErrVacio
	}
	suma, peso := 0, 2
	for i := len(cuerpo) - 1; i >= 0; i-- {
		c := cuerpo[i]
		if c < '0' || c > '9' {
			return "", ErrFormato
		}
		suma += int(c-'0') * peso
		peso++
		if peso > 7 {
			peso = 2
		}
	}
	switch dv := 11 - suma%11; dv {
	case 11:
		return "0", nil
	case 10:
		return "K", nil
	default:
		return strconv.Itoa(dv), nil
	}
}

// split removes dots, spaces and the hyphen and separates body and check char.
func split(s string) (cuerpo, dv string, err error) {
	limpio := strings.NewReplacer(".", "", "-", "", " ", "").Replace(strings.TrimSpace(s))
	if limpio == "" {
		return "", "", ErrVacio
	}
	if len(limpio) < 2 {
		return "", "", ErrFormato
	}
	cuerpo = strings.TrimLeft(limpio[:len(limpio)-1], "0")
	dv = strings.ToUpper(limpio[len(limpio)-1:])
	if cuerpo == "" {
		return "", "", ErrFormato
	}
	for _, c := range cuerpo {
		if c < '0' || c > '9' {
			return "", "", ErrFormato
		}
	}
	if dv != "K" && (dv[0] < '0' || dv[0] > '9') {
		return "", "", ErrFormato
	}
	return cuerpo, dv, nil
}

// Validar reports whether s is a well-formed RUT whose check character
// matches its body. "12.345.678-5", "12345678-5" and "123456785" are
// equivalent; the check character is compared case-insensitively.
func Validar(s string) bool {
	cuerpo, dv, err := split(s)
	if err != nil {
		return false
	}
	esperado, err := DigitoVerificador(cuerpo)
	if err != nil {
		return false
	}
	return esperado == dv
}

// Normalizar returns the canonical storage form BODY-DV (no dots, upper-case K).
// It does not check the digit; call Validar for that.
func Normalizar(s string) (string, error) {
	cuerpo, dv, err := split(s)
	if err != nil {
		return "", err
	}
	return cuerpo + "-" + dv, nil
}

// Formatear renders a RUT with thousands separators: 12.345.678-5.
func Formatear(s string) (string, error) {
	cuerpo, dv, err := split(s)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i, c := range cuerpo {
		if i > 0 && (len(cuerpo)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	return b.String() + "-" + dv, nil
}
