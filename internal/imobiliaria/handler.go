package imobiliaria

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Handler encapsula DB e repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

type criarImobiliariaRequest struct {
	Nome     string `json:"nome"`
	Endereco string `json:"endereco"`
	Cidade   string `json:"cidade"`
	Estado   string `json:"estado"`
	Status   string `json:"status"`
}

type atualizarImobiliariaRequest struct {
	Nome     *string `json:"nome"`
	Endereco *string `json:"endereco"`
	Cidade   *string `json:"cidade"`
	Estado   *string `json:"estado"`
	Status   *string `json:"status"`
}

// Criar cadastra uma nova imobiliária (admin)
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var req criarImobiliariaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Nome) == "" {
		http.Error(w, "nome é obrigatório", http.StatusBadRequest)
		return
	}
	status := req.Status
	if status == "" {
		status = StatusAtiva
	}
	if status != StatusAtiva && status != StatusBloqueada {
		http.Error(w, "status inválido", http.StatusBadRequest)
		return
	}
	i := Imobiliaria{
		Nome:     strings.TrimSpace(req.Nome),
		Endereco: req.Endereco,
		Cidade:   req.Cidade,
		Estado:   req.Estado,
		Status:   status,
	}
	if err := h.Repository.Salvar(h.DB, &i); err != nil {
		http.Error(w, "erro ao salvar imobiliária: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(i)
}

// Listar retorna todas as imobiliárias (qualquer autenticado)
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Repository.ListarTodas(h.DB)
	if err != nil {
		http.Error(w, "erro ao listar imobiliárias: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lista)
}

// BuscarPorID retorna uma imobiliária pelo ID
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	i, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "imobiliária não encontrada", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(i)
}

// Atualizar altera campos presentes no payload; ausentes ficam como estão
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	existente, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "imobiliária não encontrada", http.StatusNotFound)
		return
	}
	var req atualizarImobiliariaRequest
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
	if req.Endereco != nil {
		existente.Endereco = *req.Endereco
	}
	if req.Cidade != nil {
		existente.Cidade = *req.Cidade
	}
	if req.Estado != nil {
		existente.Estado = *req.Estado
	}
	if req.Status != nil {
		if *req.Status != StatusAtiva && *req.Status != StatusBloqueada {
			http.Error(w, "status inválido", http.StatusBadRequest)
			return
		}
		existente.Status = *req.Status
	}
	if err := h.Repository.Atualizar(h.DB, existente); err != nil {
		http.Error(w, "erro ao atualizar imobiliária: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(existente)
}

// Cidades retorna os valores distintos de cidade entre as imobiliárias
func (h *Handler) Cidades(w http.ResponseWriter, r *http.Request) {
	cidades, err := h.Repository.Cidades(h.DB)
	if err != nil {
		http.Error(w, "erro ao listar cidades: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cidades)
}

// Estados retorna os valores distintos de estado entre as imobiliárias
func (h *Handler) Estados(w http.ResponseWriter, r *http.Request) {
	estados, err := h.Repository.Estados(h.DB)
	if err != nil {
		http.Error(w, "erro ao listar estados: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(estados)
}
