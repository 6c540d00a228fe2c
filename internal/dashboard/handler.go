package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/imoblink/api-imobiliaria/internal/agendamento"
	"github.com/imoblink/api-imobiliaria/internal/auth"
	"github.com/imoblink/api-imobiliaria/internal/cliente"
	"github.com/imoblink/api-imobiliaria/internal/consultor"
	"github.com/imoblink/api-imobiliaria/internal/fechamento"
)

// Handler agrega em memória os conjuntos buscados no banco, todos
// recortados pelo escopo do chamador. Qualquer busca que falhe aborta a
// agregação inteira; não existe resultado parcial.
type Handler struct {
	DB           *gorm.DB
	Clientes     cliente.Repository
	Consultores  consultor.Repository
	Agendamentos agendamento.Repository
	Fechamentos  fechamento.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:           db,
		Clientes:     cliente.NewRepository(),
		Consultores:  consultor.NewRepository(),
		Agendamentos: agendamento.NewRepository(),
		Fechamentos:  fechamento.NewRepository(),
	}
}

// Obter monta o resumo do dashboard
func (h *Handler) Obter(w http.ResponseWriter, r *http.Request) {
	escopo := auth.EscopoDaRequisicao(r)
	agora := time.Now()
	hoje := agora.Format("2006-01-02")

	agsHoje, err := h.Agendamentos.ListarPorData(h.DB, escopo, hoje)
	if err != nil {
		http.Error(w, "erro ao montar dashboard: "+err.Error(), http.StatusInternalServerError)
		return
	}
	lembradosHoje, err := h.Agendamentos.ContarLembradosPorData(h.DB, escopo, hoje)
	if err != nil {
		http.Error(w, "erro ao montar dashboard: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var totalClientes int64
	if escopo.Admin() {
		totalClientes, err = h.Clientes.ContarTodos(h.DB)
	} else {
		// a contagem usa o conjunto explícito de ids visíveis; conjunto
		// vazio conta zero, nunca recai em "todos os clientes"
		var ids []uint
		ids, err = h.Clientes.IDsVisiveis(h.DB, escopo)
		if err == nil {
			totalClientes, err = h.Clientes.ContarPorIDs(h.DB, ids)
		}
	}
	if err != nil {
		http.Error(w, "erro ao montar dashboard: "+err.Error(), http.StatusInternalServerError)
		return
	}

	fechamentos, err := h.Fechamentos.Listar(h.DB, escopo)
	if err != nil {
		http.Error(w, "erro ao montar dashboard: "+err.Error(), http.StatusInternalServerError)
		return
	}
	consultores, err := h.Consultores.Listar(h.DB, escopo)
	if err != nil {
		http.Error(w, "erro ao montar dashboard: "+err.Error(), http.StatusInternalServerError)
		return
	}
	agendamentos, err := h.Agendamentos.Listar(h.DB, escopo)
	if err != nil {
		http.Error(w, "erro ao montar dashboard: "+err.Error(), http.StatusInternalServerError)
		return
	}

	fHoje, fMes, valorMes, ticket := ResumoFechamentos(fechamentos, agora)

	resumo := Resumo{
		HojeAgendamentos: int64(len(agsHoje)),
		HojeLembrados:    lembradosHoje,
		TotalClientes:    totalClientes,
		FechamentosHoje:  fHoje,
		FechamentosMes:   fMes,
		ValorMes:         valorMes,
		TicketMedioMes:   ticket,
		TotalFechamentos: len(fechamentos),
		Consultores:      MontarRanking(consultores, agendamentos, fechamentos, agora),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resumo)
}
