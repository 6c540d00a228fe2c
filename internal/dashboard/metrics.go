package dashboard

import (
	"time"

	"github.com/imoblink/api-imobiliaria/internal/agendamento"
	"github.com/imoblink/api-imobiliaria/internal/consultor"
	"github.com/imoblink/api-imobiliaria/internal/fechamento"
)

// soData reduz o valor armazenado ao prefixo AAAA-MM-DD. Colunas DATE
// voltam de alguns drivers como "2025-08-15T00:00:00Z", e a comparação
// aqui é sempre pelo dia.
func soData(data string) string {
	if len(data) > 10 {
		return data[:10]
	}
	return data
}

// dataNoMeioDoDia interpreta a data armazenada fixada ao meio-dia.
// Parsear à meia-noite desloca o dia quando o fuso muda a fronteira,
// e o mês/ano sairiam errados.
func dataNoMeioDoDia(data string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02T15:04:05", soData(data)+"T12:00:00")
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ResumoFechamentos agrega o conjunto de fechamentos em memória:
// fechados hoje, subconjunto do mês/ano corrente, soma e ticket médio.
func ResumoFechamentos(fechamentos []fechamento.Fechamento, agora time.Time) (hoje, mes int, valorMes, ticketMedio float64) {
	hojeStr := agora.Format("2006-01-02")
	for _, f := range fechamentos {
		if soData(f.DataFechamento) == hojeStr {
			hoje++
		}
		t, ok := dataNoMeioDoDia(f.DataFechamento)
		if !ok {
			continue
		}
		if t.Year() == agora.Year() && t.Month() == agora.Month() {
			mes++
			valorMes += f.Valor
		}
	}
	// média definida como zero quando não há fechamentos no mês
	if mes > 0 {
		ticketMedio = valorMes / float64(mes)
	}
	return
}

// MontarRanking produz uma linha por consultor no escopo, com contadores
// de agendamentos e o acumulado de fechamentos do ano corrente.
func MontarRanking(
	consultores []consultor.Consultor,
	agendamentos []agendamento.Agendamento,
	fechamentos []fechamento.Fechamento,
	agora time.Time,
) []LinhaConsultor {
	hojeStr := agora.Format("2006-01-02")
	linhas := make([]LinhaConsultor, 0, len(consultores))
	indice := make(map[uint]int, len(consultores))

	for _, c := range consultores {
		indice[c.ID] = len(linhas)
		linhas = append(linhas, LinhaConsultor{ConsultorID: c.ID, Nome: c.Nome})
	}

	for _, a := range agendamentos {
		i, ok := indice[a.ConsultorID]
		if !ok {
			continue
		}
		linhas[i].Agendamentos++
		if a.Lembrado {
			linhas[i].Lembrados++
		}
		if soData(a.Data) == hojeStr {
			linhas[i].AgendamentosHoje++
		}
	}

	for _, f := range fechamentos {
		i, ok := indice[f.ConsultorID]
		if !ok {
			continue
		}
		t, okData := dataNoMeioDoDia(f.DataFechamento)
		if !okData || t.Year() != agora.Year() {
			continue
		}
		linhas[i].FechamentosAno++
		linhas[i].ValorAno += f.Valor
	}

	return linhas
}
