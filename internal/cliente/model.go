package cliente

import "gorm.io/gorm"

// Ciclo de vida: lead -> agendado -> fechado, ou recusado.
const (
	StatusLead     = "lead"
	StatusAgendado = "agendado"
	StatusFechado  = "fechado"
	StatusRecusado = "recusado"
)

// StatusValido informa se o valor é um status conhecido do ciclo de vida.
func StatusValido(s string) bool {
	switch s {
	case StatusLead, StatusAgendado, StatusFechado, StatusRecusado:
		return true
	}
	return false
}

// Cliente é um lead ou cliente convertido. ConsultorID nulo significa
// que o lead está no pool, visível para qualquer consultor pegar.
type Cliente struct {
	gorm.Model
	Nome        string `json:"nome"`
	Telefone    string `json:"telefone"`
	CPF         string `json:"cpf"`
	TipoServico string `json:"tipoServico"`
	Status      string `json:"status" gorm:"default:lead"`
	ConsultorID *uint  `json:"consultorId"`
}
