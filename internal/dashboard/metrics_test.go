package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/imoblink/api-imobiliaria/internal/agendamento"
	"github.com/imoblink/api-imobiliaria/internal/consultor"
	"github.com/imoblink/api-imobiliaria/internal/fechamento"
	"gorm.io/gorm"
)

func fech(consultorID uint, valor float64, data string) fechamento.Fechamento {
	return fechamento.Fechamento{ConsultorID: consultorID, Valor: valor, DataFechamento: data}
}

func TestResumoFechamentosJanelaMensal(t *testing.T) {
	// dois fechamentos em meses diferentes: só o do mês corrente entra
	agora := time.Date(2025, time.August, 15, 10, 0, 0, 0, time.UTC)
	fechamentos := []fechamento.Fechamento{
		fech(1, 100, "2025-07-31"),
		fech(1, 200, "2025-08-10"),
	}

	hoje, mes, valorMes, ticket := ResumoFechamentos(fechamentos, agora)
	assert.Equal(t, 0, hoje)
	assert.Equal(t, 1, mes)
	assert.Equal(t, 200.0, valorMes)
	assert.Equal(t, 200.0, ticket)
}

func TestResumoFechamentosHoje(t *testing.T) {
	agora := time.Date(2025, time.August, 15, 23, 30, 0, 0, time.UTC)
	fechamentos := []fechamento.Fechamento{
		fech(1, 50, "2025-08-15"),
		fech(2, 80, "2025-08-15"),
		fech(1, 70, "2025-08-14"),
	}

	hoje, mes, valorMes, ticket := ResumoFechamentos(fechamentos, agora)
	assert.Equal(t, 2, hoje)
	assert.Equal(t, 3, mes)
	assert.Equal(t, 200.0, valorMes)
	assert.InDelta(t, 200.0/3, ticket, 1e-9)
}

func TestTicketMedioZeroSemFechamentosNoMes(t *testing.T) {
	agora := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	fechamentos := []fechamento.Fechamento{fech(1, 300, "2025-08-20")}

	_, mes, valorMes, ticket := ResumoFechamentos(fechamentos, agora)
	assert.Equal(t, 0, mes)
	assert.Equal(t, 0.0, valorMes)
	assert.Equal(t, 0.0, ticket)
}

func TestResumoFechamentosFronteiraDeMes(t *testing.T) {
	// primeiro dia do mês não pode vazar para o mês anterior
	agora := time.Date(2025, time.August, 1, 0, 10, 0, 0, time.UTC)
	fechamentos := []fechamento.Fechamento{
		fech(1, 100, "2025-08-01"),
		fech(1, 900, "2025-07-31"),
	}

	_, mes, valorMes, _ := ResumoFechamentos(fechamentos, agora)
	assert.Equal(t, 1, mes)
	assert.Equal(t, 100.0, valorMes)
}

func TestResumoFechamentosDataInvalidaIgnorada(t *testing.T) {
	agora := time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC)
	fechamentos := []fechamento.Fechamento{fech(1, 100, "isto-não-é-data")}

	_, mes, valorMes, ticket := ResumoFechamentos(fechamentos, agora)
	assert.Equal(t, 0, mes)
	assert.Equal(t, 0.0, valorMes)
	assert.Equal(t, 0.0, ticket)
}

func TestMontarRankingJanelaAnual(t *testing.T) {
	agora := time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC)
	consultores := []consultor.Consultor{
		{Model: gorm.Model{ID: 1}, Nome: "Ana"},
		{Model: gorm.Model{ID: 2}, Nome: "Bruno"},
	}
	agendamentos := []agendamento.Agendamento{
		{ConsultorID: 1, Data: "2025-08-15", Lembrado: true},
		{ConsultorID: 1, Data: "2025-08-10"},
		{ConsultorID: 2, Data: "2025-08-15"},
	}
	fechamentos := []fechamento.Fechamento{
		fech(1, 100, "2025-01-05"), // ano corrente, fora do mês: entra no ranking
		fech(1, 200, "2025-08-12"),
		fech(1, 999, "2024-12-31"), // ano anterior: fica de fora
		fech(2, 50, "2025-08-01"),
	}

	linhas := MontarRanking(consultores, agendamentos, fechamentos, agora)
	assert.Len(t, linhas, 2)

	ana := linhas[0]
	assert.Equal(t, uint(1), ana.ConsultorID)
	assert.Equal(t, 2, ana.Agendamentos)
	assert.Equal(t, 1, ana.Lembrados)
	assert.Equal(t, 1, ana.AgendamentosHoje)
	assert.Equal(t, 2, ana.FechamentosAno)
	assert.Equal(t, 300.0, ana.ValorAno)

	bruno := linhas[1]
	assert.Equal(t, 1, bruno.FechamentosAno)
	assert.Equal(t, 50.0, bruno.ValorAno)
}

func TestResumoFechamentosDataComCarimboDeHora(t *testing.T) {
	// colunas DATE podem voltar do driver como RFC3339 em vez de AAAA-MM-DD
	agora := time.Date(2025, time.August, 15, 10, 0, 0, 0, time.UTC)
	fechamentos := []fechamento.Fechamento{
		fech(1, 200, "2025-08-15T00:00:00Z"),
		fech(1, 300, "2025-07-01T00:00:00Z"),
	}

	hoje, mes, valorMes, ticket := ResumoFechamentos(fechamentos, agora)
	assert.Equal(t, 1, hoje)
	assert.Equal(t, 1, mes)
	assert.Equal(t, 200.0, valorMes)
	assert.Equal(t, 200.0, ticket)
}

func TestMontarRankingDataComCarimboDeHora(t *testing.T) {
	agora := time.Date(2025, time.August, 15, 10, 0, 0, 0, time.UTC)
	consultores := []consultor.Consultor{{Model: gorm.Model{ID: 1}, Nome: "Ana"}}
	agendamentos := []agendamento.Agendamento{
		{ConsultorID: 1, Data: "2025-08-15T00:00:00Z"},
	}
	fechamentos := []fechamento.Fechamento{
		fech(1, 100, "2025-03-10T00:00:00Z"),
		fech(1, 999, "2024-12-31T00:00:00Z"),
	}

	linhas := MontarRanking(consultores, agendamentos, fechamentos, agora)
	assert.Len(t, linhas, 1)
	assert.Equal(t, 1, linhas[0].AgendamentosHoje)
	assert.Equal(t, 1, linhas[0].FechamentosAno)
	assert.Equal(t, 100.0, linhas[0].ValorAno)
}

func TestMontarRankingConsultorSemMovimento(t *testing.T) {
	agora := time.Now()
	consultores := []consultor.Consultor{{Model: gorm.Model{ID: 5}, Nome: "Carla"}}

	linhas := MontarRanking(consultores, nil, nil, agora)
	assert.Len(t, linhas, 1)
	assert.Equal(t, 0, linhas[0].Agendamentos)
	assert.Equal(t, 0, linhas[0].FechamentosAno)
	assert.Equal(t, 0.0, linhas[0].ValorAno)
}
