package agendamento

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/imoblink/api-imobiliaria/internal/auth"
	"github.com/imoblink/api-imobiliaria/internal/cliente"
)

type criarAgendamentoRequest struct {
	ClienteID     uint   `json:"clienteId"`
	ConsultorID   uint   `json:"consultorId"`
	ImobiliariaID uint   `json:"imobiliariaId"`
	Data          string `json:"data"`
	Hora          string `json:"hora"`
}

type atualizarAgendamentoRequest struct {
	ImobiliariaID *uint   `json:"imobiliariaId"`
	Data          *string `json:"data"`
	Hora          *string `json:"hora"`
	Status        *string `json:"status"`
	Lembrado      *bool   `json:"lembrado"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type lembradoRequest struct {
	Lembrado *bool `json:"lembrado"`
}

// Handler encapsula DB, repository e o repositório de clientes para
// manter o status do cliente espelhando o último agendamento.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Clientes   cliente.Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository(), Clientes: cliente.NewRepository()}
}

func dataValida(data string) bool {
	_, err := time.Parse("2006-01-02", data)
	return err == nil
}

// Criar marca uma visita e move o cliente para "agendado"
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var req criarAgendamentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	escopo := auth.EscopoDaRequisicao(r)
	if !escopo.Admin() {
		req.ConsultorID = escopo.ConsultorID
	}
	if req.ClienteID == 0 || req.ConsultorID == 0 || req.ImobiliariaID == 0 {
		http.Error(w, "clienteId, consultorId e imobiliariaId são obrigatórios", http.StatusBadRequest)
		return
	}
	if !dataValida(req.Data) {
		http.Error(w, "data inválida (use AAAA-MM-DD)", http.StatusBadRequest)
		return
	}

	a := Agendamento{
		ClienteID:     req.ClienteID,
		ConsultorID:   req.ConsultorID,
		ImobiliariaID: req.ImobiliariaID,
		Data:          req.Data,
		Hora:          req.Hora,
		Status:        cliente.StatusAgendado,
	}
	if err := h.Repository.Salvar(h.DB, &a); err != nil {
		http.Error(w, "erro ao salvar agendamento: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := h.Clientes.DefinirStatus(h.DB, a.ClienteID, cliente.StatusAgendado); err != nil {
		http.Error(w, "erro ao atualizar status do cliente: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(a)
}

// Listar retorna os agendamentos visíveis ao chamador
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Repository.Listar(h.DB, auth.EscopoDaRequisicao(r))
	if err != nil {
		http.Error(w, "erro ao listar agendamentos: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lista)
}

// BuscarPorID retorna um agendamento visível ao chamador
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	a, err := h.Repository.BuscarPorID(h.DB, auth.EscopoDaRequisicao(r), uint(id))
	if err != nil {
		http.Error(w, "agendamento não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(a)
}

// Atualizar aplica um patch esparso; mudança de status espelha no cliente
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	escopo := auth.EscopoDaRequisicao(r)
	existente, err := h.Repository.BuscarPorID(h.DB, escopo, uint(id))
	if err != nil {
		http.Error(w, "agendamento não encontrado", http.StatusNotFound)
		return
	}
	var req atualizarAgendamentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if req.ImobiliariaID != nil {
		existente.ImobiliariaID = *req.ImobiliariaID
	}
	if req.Data != nil {
		if !dataValida(*req.Data) {
			http.Error(w, "data inválida (use AAAA-MM-DD)", http.StatusBadRequest)
			return
		}
		existente.Data = *req.Data
	}
	if req.Hora != nil {
		existente.Hora = *req.Hora
	}
	if req.Lembrado != nil {
		existente.Lembrado = *req.Lembrado
	}
	statusMudou := false
	if req.Status != nil {
		if !cliente.StatusValido(*req.Status) {
			http.Error(w, "status inválido", http.StatusBadRequest)
			return
		}
		existente.Status = *req.Status
		statusMudou = true
	}
	if err := h.Repository.Atualizar(h.DB, existente); err != nil {
		http.Error(w, "erro ao atualizar agendamento: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if statusMudou {
		if err := h.Clientes.DefinirStatus(h.DB, existente.ClienteID, existente.Status); err != nil {
			http.Error(w, "erro ao atualizar status do cliente: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(existente)
}

// AtualizarStatus muda o status da visita e espelha no cliente
func (h *Handler) AtualizarStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	escopo := auth.EscopoDaRequisicao(r)
	existente, err := h.Repository.BuscarPorID(h.DB, escopo, uint(id))
	if err != nil {
		http.Error(w, "agendamento não encontrado", http.StatusNotFound)
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !cliente.StatusValido(req.Status) {
		http.Error(w, "status inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.AtualizarStatus(h.DB, existente.ID, req.Status); err != nil {
		http.Error(w, "erro ao atualizar status: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := h.Clientes.DefinirStatus(h.DB, existente.ClienteID, req.Status); err != nil {
		http.Error(w, "erro ao atualizar status do cliente: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": req.Status})
}

// MarcarLembrado registra que o cliente foi lembrado da visita
func (h *Handler) MarcarLembrado(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	escopo := auth.EscopoDaRequisicao(r)
	existente, err := h.Repository.BuscarPorID(h.DB, escopo, uint(id))
	if err != nil {
		http.Error(w, "agendamento não encontrado", http.StatusNotFound)
		return
	}
	lembrado := true
	var req lembradoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Lembrado != nil {
		lembrado = *req.Lembrado
	}
	if err := h.Repository.MarcarLembrado(h.DB, existente.ID, lembrado); err != nil {
		http.Error(w, "erro ao marcar lembrete: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"lembrado": lembrado})
}

// Deletar remove um agendamento (somente admin, garantido na rota)
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	if _, err := h.Repository.BuscarPorID(h.DB, auth.EscopoDaRequisicao(r), uint(id)); err != nil {
		http.Error(w, "agendamento não encontrado", http.StatusNotFound)
		return
	}
	if err := h.Repository.Deletar(h.DB, uint(id)); err != nil {
		http.Error(w, "erro ao excluir agendamento: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("agendamento excluído com sucesso"))
}
