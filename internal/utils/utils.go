package utils

import (
	"strings"
	"unicode"
)

// NormalizarEmail baixa a caixa e remove espaços nas pontas.
// Toda comparação e gravação de e-mail passa por aqui, para que
// "Foo@Bar.com " e "foo@bar.com" sejam o mesmo endereço.
func NormalizarEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SomenteDigitos remove tudo que não for dígito.
func SomenteDigitos(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TelefoneValido aceita telefones brasileiros com DDD (10 ou 11 dígitos).
func TelefoneValido(telefone string) bool {
	n := len(SomenteDigitos(telefone))
	return n == 10 || n == 11
}

// CPFValido valida o comprimento do documento (11 dígitos).
func CPFValido(cpf string) bool {
	return len(SomenteDigitos(cpf)) == 11
}
