package agendamento

import "gorm.io/gorm"

// Agendamento é uma visita marcada entre cliente e consultor numa imobiliária.
// O status usa os mesmos valores do ciclo de vida do cliente e é espelhado
// nele a cada mutação (convenção de aplicação, sem constraint no banco).
type Agendamento struct {
	gorm.Model
	ClienteID     uint   `json:"clienteId"`
	ConsultorID   uint   `json:"consultorId"`
	ImobiliariaID uint   `json:"imobiliariaId"`
	Data          string `json:"data"`
	Hora          string `json:"hora"`
	Status        string `json:"status" gorm:"default:agendado"`
	Lembrado      bool   `json:"lembrado"`
}
