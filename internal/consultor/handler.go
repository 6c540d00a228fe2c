package consultor

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/imoblink/api-imobiliaria/internal/auth"
	"github.com/imoblink/api-imobiliaria/internal/perfil"
	"github.com/imoblink/api-imobiliaria/internal/utils"
)

// request DTOs
type loginRequest struct {
	Email string `json:"email"`
	Nome  string `json:"nome"`
	Senha string `json:"senha"`
}

type criarConsultorRequest struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	CPF      string `json:"cpf"`
	Telefone string `json:"telefone"`
	ChavePix string `json:"chavePix"`
	Senha    string `json:"senha"`
	Perfil   string `json:"perfil"`
}

type atualizarConsultorRequest struct {
	Nome     *string `json:"nome"`
	Email    *string `json:"email"`
	CPF      *string `json:"cpf"`
	Telefone *string `json:"telefone"`
	ChavePix *string `json:"chavePix"`
	Senha    *string `json:"senha"`
	Perfil   *string `json:"perfil"`
}

// Handler encapsula DB e repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

// Login autentica por e-mail (admin primeiro, depois consultor) e gera o JWT.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	login := req.Email
	if login == "" {
		login = req.Nome
	}
	if strings.TrimSpace(login) == "" || req.Senha == "" {
		http.Error(w, "e-mail e senha são obrigatórios", http.StatusBadRequest)
		return
	}

	user, err := h.Repository.BuscarAdminPorEmail(h.DB, login)
	if err != nil {
		user, err = h.Repository.BuscarPorEmail(h.DB, login)
	}
	if err != nil {
		http.Error(w, "credenciais inválidas", http.StatusUnauthorized)
		return
	}
	if !utils.VerificarSenha(user.Senha, req.Senha) {
		http.Error(w, "credenciais inválidas", http.StatusUnauthorized)
		return
	}

	consultorID := uint(0)
	if user.Perfil == perfil.Consultor {
		consultorID = user.ID
	}
	token, err := auth.GerarToken(user.ID, user.Nome, user.Perfil, consultorID)
	if err != nil {
		http.Error(w, "erro ao gerar token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loginResponse{Token: token, Usuario: montarUsuarioDTO(*user)})
}

func (h *Handler) validarNovoConsultor(req *criarConsultorRequest, w http.ResponseWriter) bool {
	if strings.TrimSpace(req.Nome) == "" || strings.TrimSpace(req.Email) == "" || req.Senha == "" {
		http.Error(w, "nome, e-mail e senha são obrigatórios", http.StatusBadRequest)
		return false
	}
	if req.CPF != "" && !utils.CPFValido(req.CPF) {
		http.Error(w, "CPF inválido", http.StatusBadRequest)
		return false
	}
	if req.Telefone != "" && !utils.TelefoneValido(req.Telefone) {
		http.Error(w, "telefone inválido", http.StatusBadRequest)
		return false
	}
	if emUso, err := h.Repository.EmailEmUso(h.DB, req.Email, 0); err != nil {
		http.Error(w, "erro ao validar e-mail: "+err.Error(), http.StatusInternalServerError)
		return false
	} else if emUso {
		http.Error(w, "e-mail já cadastrado", http.StatusBadRequest)
		return false
	}
	if req.CPF != "" {
		if emUso, err := h.Repository.CPFEmUso(h.DB, req.CPF, 0); err != nil {
			http.Error(w, "erro ao validar CPF: "+err.Error(), http.StatusInternalServerError)
			return false
		} else if emUso {
			http.Error(w, "CPF já cadastrado", http.StatusBadRequest)
			return false
		}
	}
	return true
}

func (h *Handler) salvarNovo(w http.ResponseWriter, req criarConsultorRequest, papel perfil.Perfil) {
	if !h.validarNovoConsultor(&req, w) {
		return
	}
	hash, err := utils.HashSenha(req.Senha)
	if err != nil {
		http.Error(w, "erro ao processar senha", http.StatusInternalServerError)
		return
	}
	c := Consultor{
		Nome:     strings.TrimSpace(req.Nome),
		Email:    utils.NormalizarEmail(req.Email),
		CPF:      utils.SomenteDigitos(req.CPF),
		Telefone: req.Telefone,
		ChavePix: req.ChavePix,
		Senha:    hash,
		Perfil:   papel,
	}
	if err := h.Repository.Salvar(h.DB, &c); err != nil {
		http.Error(w, "erro ao salvar consultor: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(c)
}

// Criar cadastra um consultor via admin, respeitando o perfil enviado.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var req criarConsultorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	papel := perfil.Consultor
	if req.Perfil == string(perfil.Admin) {
		papel = perfil.Admin
	}
	h.salvarNovo(w, req, papel)
}

// Cadastro é o auto-cadastro público: o perfil é sempre consultor.
func (h *Handler) Cadastro(w http.ResponseWriter, r *http.Request) {
	var req criarConsultorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	h.salvarNovo(w, req, perfil.Consultor)
}

// Listar retorna todos (admin) ou apenas o próprio registro (consultor)
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	escopo := auth.EscopoDaRequisicao(r)
	lista, err := h.Repository.Listar(h.DB, escopo)
	if err != nil {
		http.Error(w, "erro ao listar consultores: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lista)
}

// BuscarPorID retorna um consultor pelo ID (admin ou o próprio)
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	c, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "consultor não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

// Atualizar aplica um patch esparso; campos ausentes ficam intocados
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	existente, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "consultor não encontrado", http.StatusNotFound)
		return
	}

	var req atualizarConsultorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	if req.Email != nil {
		email := utils.NormalizarEmail(*req.Email)
		if email == "" {
			http.Error(w, "e-mail não pode ser vazio", http.StatusBadRequest)
			return
		}
		emUso, err := h.Repository.EmailEmUso(h.DB, email, existente.ID)
		if err != nil {
			http.Error(w, "erro ao validar e-mail: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if emUso {
			http.Error(w, "e-mail já cadastrado", http.StatusBadRequest)
			return
		}
		existente.Email = email
	}
	if req.CPF != nil {
		if !utils.CPFValido(*req.CPF) {
			http.Error(w, "CPF inválido", http.StatusBadRequest)
			return
		}
		cpf := utils.SomenteDigitos(*req.CPF)
		emUso, err := h.Repository.CPFEmUso(h.DB, cpf, existente.ID)
		if err != nil {
			http.Error(w, "erro ao validar CPF: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if emUso {
			http.Error(w, "CPF já cadastrado", http.StatusBadRequest)
			return
		}
		existente.CPF = cpf
	}
	if req.Nome != nil {
		existente.Nome = strings.TrimSpace(*req.Nome)
	}
	if req.Telefone != nil {
		if *req.Telefone != "" && !utils.TelefoneValido(*req.Telefone) {
			http.Error(w, "telefone inválido", http.StatusBadRequest)
			return
		}
		existente.Telefone = *req.Telefone
	}
	if req.ChavePix != nil {
		existente.ChavePix = *req.ChavePix
	}
	if req.Senha != nil && *req.Senha != "" {
		hash, err := utils.HashSenha(*req.Senha)
		if err != nil {
			http.Error(w, "erro ao processar senha", http.StatusInternalServerError)
			return
		}
		existente.Senha = hash
	}
	if req.Perfil != nil {
		// só admin altera perfil
		if auth.EscopoDaRequisicao(r).Admin() {
			if *req.Perfil == string(perfil.Admin) {
				existente.Perfil = perfil.Admin
			} else {
				existente.Perfil = perfil.Consultor
			}
		}
	}

	if err := h.Repository.Atualizar(h.DB, existente); err != nil {
		http.Error(w, "erro ao atualizar consultor: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(existente)
}
