package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/imoblink/api-imobiliaria/internal/perfil"
)

var jwtSecret []byte

// ConfigurarSegredo define o segredo compartilhado usado para assinar
// e validar tokens. Deve ser chamado antes de qualquer Gerar/Validar.
func ConfigurarSegredo(segredo string) {
	jwtSecret = []byte(segredo)
}

// Claims carrega a identidade decodificada do chamador.
// ConsultorID só é preenchido quando o perfil é consultor.
type Claims struct {
	UserID      uint          `json:"userId"`
	Nome        string        `json:"nome"`
	Perfil      perfil.Perfil `json:"perfil"`
	ConsultorID uint          `json:"consultorId,omitempty"`
	jwt.RegisteredClaims
}

// GerarToken gera um JWT HS256 com validade de 24h
func GerarToken(userID uint, nome string, papel perfil.Perfil, consultorID uint) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errors.New("segredo JWT não configurado")
	}
	claims := &Claims{
		UserID:      userID,
		Nome:        nome,
		Perfil:      papel,
		ConsultorID: consultorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidarToken valida assinatura e expiração e retorna as claims
func ValidarToken(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("token inválido ou expirado: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("não foi possível extrair claims")
	}
	return claims, nil
}
