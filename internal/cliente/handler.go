package cliente

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/imoblink/api-imobiliaria/internal/auth"
	"github.com/imoblink/api-imobiliaria/internal/utils"
)

// consultorIDNulo aceita número, string numérica, "" ou null no payload.
// Vazio, null e 0 normalizam para associação nula (lead volta ao pool),
// nunca sobra string solta no vínculo.
type consultorIDNulo struct {
	Definido bool
	Valor    *uint
}

func (v *consultorIDNulo) UnmarshalJSON(b []byte) error {
	v.Definido = true
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	if s == "" || s == "null" || s == "0" {
		v.Valor = nil
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return errors.New("consultorId inválido")
	}
	u := uint(n)
	v.Valor = &u
	return nil
}

type criarClienteRequest struct {
	Nome        string          `json:"nome"`
	Telefone    string          `json:"telefone"`
	CPF         string          `json:"cpf"`
	TipoServico string          `json:"tipoServico"`
	ConsultorID consultorIDNulo `json:"consultorId"`
}

type atualizarClienteRequest struct {
	Nome        *string         `json:"nome"`
	Telefone    *string         `json:"telefone"`
	CPF         *string         `json:"cpf"`
	TipoServico *string         `json:"tipoServico"`
	Status      *string         `json:"status"`
	ConsultorID consultorIDNulo `json:"consultorId"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// Handler encapsula DB e repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

func validarLead(nome, telefone, cpf string) string {
	if strings.TrimSpace(nome) == "" {
		return "nome é obrigatório"
	}
	if !utils.TelefoneValido(telefone) {
		return "telefone inválido"
	}
	if cpf != "" && !utils.CPFValido(cpf) {
		return "CPF inválido"
	}
	return ""
}

// CadastroLead é o cadastro público de lead; cai no pool sem consultor.
func (h *Handler) CadastroLead(w http.ResponseWriter, r *http.Request) {
	var req criarClienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if msg := validarLead(req.Nome, req.Telefone, req.CPF); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	c := Cliente{
		Nome:        strings.TrimSpace(req.Nome),
		Telefone:    req.Telefone,
		CPF:         utils.SomenteDigitos(req.CPF),
		TipoServico: req.TipoServico,
		Status:      StatusLead,
	}
	if err := h.Repository.Salvar(h.DB, &c); err != nil {
		http.Error(w, "erro ao salvar lead: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(c)
}

// Criar cadastra um cliente autenticado; consultor cria sempre para si.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var req criarClienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if msg := validarLead(req.Nome, req.Telefone, req.CPF); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	escopo := auth.EscopoDaRequisicao(r)
	c := Cliente{
		Nome:        strings.TrimSpace(req.Nome),
		Telefone:    req.Telefone,
		CPF:         utils.SomenteDigitos(req.CPF),
		TipoServico: req.TipoServico,
		Status:      StatusLead,
	}
	if escopo.Admin() {
		c.ConsultorID = req.ConsultorID.Valor
	} else {
		proprio := escopo.ConsultorID
		c.ConsultorID = &proprio
	}
	if err := h.Repository.Salvar(h.DB, &c); err != nil {
		http.Error(w, "erro ao salvar cliente: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(c)
}

// Listar retorna os clientes visíveis ao chamador
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	escopo := auth.EscopoDaRequisicao(r)
	lista, err := h.Repository.Listar(h.DB, escopo)
	if err != nil {
		http.Error(w, "erro ao listar clientes: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lista)
}

// BuscarPorID retorna um cliente visível ao chamador
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	c, err := h.Repository.BuscarPorID(h.DB, auth.EscopoDaRequisicao(r), uint(id))
	if err != nil {
		http.Error(w, "cliente não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

// Atualizar aplica um patch esparso no cliente
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	escopo := auth.EscopoDaRequisicao(r)
	existente, err := h.Repository.BuscarPorID(h.DB, escopo, uint(id))
	if err != nil {
		http.Error(w, "cliente não encontrado", http.StatusNotFound)
		return
	}
	var req atualizarClienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if req.Nome != nil {
		if strings.TrimSpace(*req.Nome) == "" {
			http.Error(w, "nome não pode ser vazio", http.StatusBadRequest)
			return
		}
		existente.Nome = strings.TrimSpace(*req.Nome)
	}
	if req.Telefone != nil {
		if !utils.TelefoneValido(*req.Telefone) {
			http.Error(w, "telefone inválido", http.StatusBadRequest)
			return
		}
		existente.Telefone = *req.Telefone
	}
	if req.CPF != nil {
		if *req.CPF != "" && !utils.CPFValido(*req.CPF) {
			http.Error(w, "CPF inválido", http.StatusBadRequest)
			return
		}
		existente.CPF = utils.SomenteDigitos(*req.CPF)
	}
	if req.TipoServico != nil {
		existente.TipoServico = *req.TipoServico
	}
	if req.Status != nil {
		if !StatusValido(*req.Status) {
			http.Error(w, "status inválido", http.StatusBadRequest)
			return
		}
		existente.Status = *req.Status
	}
	if req.ConsultorID.Definido {
		// reatribuição só pelo admin; consultor não transfere cliente
		if !escopo.Admin() {
			http.Error(w, "apenas admin reatribui clientes", http.StatusForbidden)
			return
		}
		existente.ConsultorID = req.ConsultorID.Valor
	}
	if err := h.Repository.Atualizar(h.DB, existente); err != nil {
		http.Error(w, "erro ao atualizar cliente: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(existente)
}

// AtualizarStatus muda só o status do cliente
func (h *Handler) AtualizarStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	escopo := auth.EscopoDaRequisicao(r)
	if _, err := h.Repository.BuscarPorID(h.DB, escopo, uint(id)); err != nil {
		http.Error(w, "cliente não encontrado", http.StatusNotFound)
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !StatusValido(req.Status) {
		http.Error(w, "status inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.DefinirStatus(h.DB, uint(id), req.Status); err != nil {
		http.Error(w, "erro ao atualizar status: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": req.Status})
}

// NovosLeads lista o pool de leads sem consultor
func (h *Handler) NovosLeads(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Repository.ListarNaoAtribuidos(h.DB)
	if err != nil {
		http.Error(w, "erro ao listar leads: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lista)
}

// PegarLead atribui um lead do pool ao chamador. A recheca de
// "ainda sem consultor" acontece no UPDATE condicional do repository,
// então duas tentativas concorrentes produzem exatamente um vencedor.
func (h *Handler) PegarLead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	escopo := auth.EscopoDaRequisicao(r)
	consultorID := escopo.ConsultorID
	if escopo.Admin() {
		// admin pega em nome de um consultor via query
		cid, err := strconv.Atoi(r.URL.Query().Get("consultorId"))
		if err != nil || cid <= 0 {
			http.Error(w, "consultorId é obrigatório para admin", http.StatusBadRequest)
			return
		}
		consultorID = uint(cid)
	}
	if consultorID == 0 {
		http.Error(w, "Acesso negado", http.StatusForbidden)
		return
	}

	ok, err := h.Repository.Atribuir(h.DB, uint(id), consultorID)
	if err != nil {
		http.Error(w, "erro ao atribuir lead: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		existe, err := h.Repository.Existe(h.DB, uint(id))
		if err != nil {
			http.Error(w, "erro ao atribuir lead: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if !existe {
			http.Error(w, "lead não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "lead já atribuído", http.StatusBadRequest)
		return
	}
	c, err := h.Repository.BuscarPorID(h.DB, escopo, uint(id))
	if err != nil {
		http.Error(w, "cliente não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}
