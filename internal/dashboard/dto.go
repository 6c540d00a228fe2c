package dashboard

// Resumo é a fotografia diária/mensal devolvida em GET /api/dashboard,
// já recortada pelo escopo do chamador.
type Resumo struct {
	HojeAgendamentos int64            `json:"hojeAgendamentos"`
	HojeLembrados    int64            `json:"hojeLembrados"`
	TotalClientes    int64            `json:"totalClientes"`
	FechamentosHoje  int              `json:"fechamentosHoje"`
	FechamentosMes   int              `json:"fechamentosMes"`
	ValorMes         float64          `json:"valorMes"`
	TicketMedioMes   float64          `json:"ticketMedioMes"`
	TotalFechamentos int              `json:"totalFechamentos"`
	Consultores      []LinhaConsultor `json:"consultores"`
}

// LinhaConsultor é uma linha do ranking. A janela dos fechamentos aqui
// é o ano corrente, mais larga que a janela mensal do resumo global.
type LinhaConsultor struct {
	ConsultorID      uint    `json:"consultorId"`
	Nome             string  `json:"nome"`
	Agendamentos     int     `json:"agendamentos"`
	Lembrados        int     `json:"lembrados"`
	AgendamentosHoje int     `json:"agendamentosHoje"`
	FechamentosAno   int     `json:"fechamentosAno"`
	ValorAno         float64 `json:"valorAno"`
}
