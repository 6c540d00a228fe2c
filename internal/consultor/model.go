package consultor

import (
	"gorm.io/gorm"

	"github.com/imoblink/api-imobiliaria/internal/perfil"
)

// Consultor é o corretor parceiro que indica clientes e registra fechamentos.
type Consultor struct {
	gorm.Model
	Nome     string        `json:"nome"`
	Email    string        `json:"email" gorm:"unique"`
	CPF      string        `json:"cpf"`
	Telefone string        `json:"telefone"`
	ChavePix string        `json:"chavePix"`
	Senha    string        `json:"-"`
	Perfil   perfil.Perfil `json:"perfil" gorm:"default:consultor"`
}
