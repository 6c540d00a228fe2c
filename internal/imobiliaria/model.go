package imobiliaria

import "gorm.io/gorm"

const (
	StatusAtiva     = "ativa"
	StatusBloqueada = "bloqueada"
)

// Imobiliaria é uma agência parceira onde as visitas acontecem.
type Imobiliaria struct {
	gorm.Model
	Nome     string `json:"nome"`
	Endereco string `json:"endereco"`
	Cidade   string `json:"cidade"`
	Estado   string `json:"estado"`
	Status   string `json:"status" gorm:"default:ativa"`
}
