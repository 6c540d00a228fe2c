package fechamento

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/imoblink/api-imobiliaria/internal/armazenamento"
	"github.com/imoblink/api-imobiliaria/internal/auth"
	"github.com/imoblink/api-imobiliaria/internal/cliente"
)

type criarFechamentoRequest struct {
	ClienteID      uint    `json:"clienteId"`
	ConsultorID    uint    `json:"consultorId"`
	ImobiliariaID  uint    `json:"imobiliariaId"`
	AgendamentoID  *uint   `json:"agendamentoId"`
	Valor          float64 `json:"valor"`
	DataFechamento string  `json:"dataFechamento"`
}

type atualizarFechamentoRequest struct {
	ImobiliariaID  *uint    `json:"imobiliariaId"`
	AgendamentoID  *uint    `json:"agendamentoId"`
	Valor          *float64 `json:"valor"`
	DataFechamento *string  `json:"dataFechamento"`
}

// contratoEnviado é o arquivo já validado, antes de qualquer escrita.
type contratoEnviado struct {
	Dados   []byte
	Nome    string
	Tamanho int64
}

// Handler encapsula DB, repository e a ponte com o armazenamento de blobs.
type Handler struct {
	DB            *gorm.DB
	Repository    Repository
	Clientes      cliente.Repository
	Armazenamento armazenamento.Driver
	LimiteUpload  int64
}

func NewHandler(db *gorm.DB, driver armazenamento.Driver, limiteUpload int64) *Handler {
	return &Handler{
		DB:            db,
		Repository:    NewRepository(),
		Clientes:      cliente.NewRepository(),
		Armazenamento: driver,
		LimiteUpload:  limiteUpload,
	}
}

// lerContrato extrai e valida o único PDF da requisição multipart.
// Qualquer rejeição acontece aqui, antes de tocar armazenamento ou banco.
func (h *Handler) lerContrato(r *http.Request) (*contratoEnviado, int, string) {
	if err := r.ParseMultipartForm(h.LimiteUpload); err != nil {
		return nil, http.StatusBadRequest, "formulário multipart inválido"
	}
	file, header, err := r.FormFile("contrato")
	if err == http.ErrMissingFile {
		return nil, 0, ""
	}
	if err != nil {
		return nil, http.StatusBadRequest, "arquivo de contrato inválido"
	}
	defer file.Close()

	if header.Size > h.LimiteUpload {
		return nil, http.StatusBadRequest, "arquivo excede o tamanho máximo"
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		return nil, http.StatusBadRequest, "apenas arquivos PDF são aceitos"
	}
	if ct := header.Header.Get("Content-Type"); ct != "" &&
		ct != "application/pdf" && ct != "application/octet-stream" {
		return nil, http.StatusBadRequest, "apenas arquivos PDF são aceitos"
	}

	dados, err := io.ReadAll(io.LimitReader(file, h.LimiteUpload+1))
	if err != nil {
		return nil, http.StatusInternalServerError, "erro ao ler o arquivo"
	}
	if int64(len(dados)) > h.LimiteUpload {
		return nil, http.StatusBadRequest, "arquivo excede o tamanho máximo"
	}
	if !bytes.HasPrefix(dados, []byte("%PDF-")) {
		return nil, http.StatusBadRequest, "apenas arquivos PDF são aceitos"
	}
	return &contratoEnviado{Dados: dados, Nome: header.Filename, Tamanho: int64(len(dados))}, 0, ""
}

func lerCamposMultipart(r *http.Request) criarFechamentoRequest {
	var req criarFechamentoRequest
	atoiU := func(campo string) uint {
		n, _ := strconv.Atoi(r.FormValue(campo))
		if n < 0 {
			return 0
		}
		return uint(n)
	}
	req.ClienteID = atoiU("clienteId")
	req.ConsultorID = atoiU("consultorId")
	req.ImobiliariaID = atoiU("imobiliariaId")
	if v := atoiU("agendamentoId"); v > 0 {
		req.AgendamentoID = &v
	}
	req.Valor, _ = strconv.ParseFloat(r.FormValue("valor"), 64)
	req.DataFechamento = r.FormValue("dataFechamento")
	return req
}

func dataValida(data string) bool {
	_, err := time.Parse("2006-01-02", data)
	return err == nil
}

// Criar registra um fechamento; aceita JSON puro ou multipart com o
// contrato em PDF. O blob sobe antes do INSERT; se o INSERT falhar,
// o blob órfão é removido (desfazer de melhor esforço).
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	escopo := auth.EscopoDaRequisicao(r)

	var req criarFechamentoRequest
	var contrato *contratoEnviado
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		c, code, msg := h.lerContrato(r)
		if code != 0 {
			http.Error(w, msg, code)
			return
		}
		contrato = c
		req = lerCamposMultipart(r)
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "payload inválido", http.StatusBadRequest)
			return
		}
	}

	if !escopo.Admin() {
		req.ConsultorID = escopo.ConsultorID
	}
	if req.ClienteID == 0 || req.ConsultorID == 0 || req.ImobiliariaID == 0 {
		http.Error(w, "clienteId, consultorId e imobiliariaId são obrigatórios", http.StatusBadRequest)
		return
	}
	if req.Valor <= 0 {
		http.Error(w, "valor deve ser maior que zero", http.StatusBadRequest)
		return
	}
	if req.DataFechamento == "" {
		req.DataFechamento = time.Now().Format("2006-01-02")
	}
	if !dataValida(req.DataFechamento) {
		http.Error(w, "dataFechamento inválida (use AAAA-MM-DD)", http.StatusBadRequest)
		return
	}

	f := Fechamento{
		ClienteID:       req.ClienteID,
		ConsultorID:     req.ConsultorID,
		ImobiliariaID:   req.ImobiliariaID,
		AgendamentoID:   req.AgendamentoID,
		Valor:           req.Valor,
		DataFechamento:  req.DataFechamento,
		StatusAprovacao: AprovacaoPendente,
	}

	if contrato != nil {
		chave := armazenamento.GerarChaveContrato()
		if err := h.Armazenamento.Salvar(r.Context(), chave, contrato.Dados); err != nil {
			http.Error(w, "erro ao enviar contrato: "+err.Error(), http.StatusInternalServerError)
			return
		}
		f.ArquivoContrato = chave
		f.NomeArquivoContrato = contrato.Nome
		f.TamanhoContrato = contrato.Tamanho
	}

	if err := h.Repository.Salvar(h.DB, &f); err != nil {
		if f.ArquivoContrato != "" {
			if rmErr := h.Armazenamento.Remover(r.Context(), f.ArquivoContrato); rmErr != nil {
				logrus.WithError(rmErr).WithField("chave", f.ArquivoContrato).
					Warn("blob órfão não pôde ser removido após falha no insert")
			}
		}
		http.Error(w, "erro ao salvar fechamento: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.Clientes.DefinirStatus(h.DB, f.ClienteID, cliente.StatusFechado); err != nil {
		http.Error(w, "erro ao atualizar status do cliente: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(f)
}

// Listar retorna os fechamentos visíveis ao chamador
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Repository.Listar(h.DB, auth.EscopoDaRequisicao(r))
	if err != nil {
		http.Error(w, "erro ao listar fechamentos: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lista)
}

// BuscarPorID retorna um fechamento visível ao chamador
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	f, err := h.Repository.BuscarPorID(h.DB, auth.EscopoDaRequisicao(r), uint(id))
	if err != nil {
		http.Error(w, "fechamento não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(f)
}

// Atualizar aplica um patch esparso no fechamento
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	existente, err := h.Repository.BuscarPorID(h.DB, auth.EscopoDaRequisicao(r), uint(id))
	if err != nil {
		http.Error(w, "fechamento não encontrado", http.StatusNotFound)
		return
	}
	var req atualizarFechamentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if req.ImobiliariaID != nil {
		existente.ImobiliariaID = *req.ImobiliariaID
	}
	if req.AgendamentoID != nil {
		if *req.AgendamentoID == 0 {
			existente.AgendamentoID = nil
		} else {
			existente.AgendamentoID = req.AgendamentoID
		}
	}
	if req.Valor != nil {
		if *req.Valor <= 0 {
			http.Error(w, "valor deve ser maior que zero", http.StatusBadRequest)
			return
		}
		existente.Valor = *req.Valor
	}
	if req.DataFechamento != nil {
		if !dataValida(*req.DataFechamento) {
			http.Error(w, "dataFechamento inválida (use AAAA-MM-DD)", http.StatusBadRequest)
			return
		}
		existente.DataFechamento = *req.DataFechamento
	}
	if err := h.Repository.Atualizar(h.DB, existente); err != nil {
		http.Error(w, "erro ao atualizar fechamento: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(existente)
}

// AnexarContrato sobe um novo PDF para um fechamento existente.
// Sobe o blob novo, grava os metadados e só então descarta o antigo.
func (h *Handler) AnexarContrato(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	existente, err := h.Repository.BuscarPorID(h.DB, auth.EscopoDaRequisicao(r), uint(id))
	if err != nil {
		http.Error(w, "fechamento não encontrado", http.StatusNotFound)
		return
	}

	contrato, code, msg := h.lerContrato(r)
	if contrato == nil {
		if code == 0 {
			code, msg = http.StatusBadRequest, "arquivo de contrato ausente"
		}
		http.Error(w, msg, code)
		return
	}

	chave := armazenamento.GerarChaveContrato()
	if err := h.Armazenamento.Salvar(r.Context(), chave, contrato.Dados); err != nil {
		http.Error(w, "erro ao enviar contrato: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := h.Repository.AnexarContrato(h.DB, existente.ID, chave, contrato.Nome, contrato.Tamanho); err != nil {
		if rmErr := h.Armazenamento.Remover(r.Context(), chave); rmErr != nil {
			logrus.WithError(rmErr).WithField("chave", chave).
				Warn("blob órfão não pôde ser removido após falha no update")
		}
		http.Error(w, "erro ao gravar contrato: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if antiga := existente.ArquivoContrato; antiga != "" && antiga != chave {
		if rmErr := h.Armazenamento.Remover(r.Context(), antiga); rmErr != nil {
			logrus.WithError(rmErr).WithField("chave", antiga).
				Warn("contrato antigo não pôde ser removido")
		}
	}

	existente.ArquivoContrato = chave
	existente.NomeArquivoContrato = contrato.Nome
	existente.TamanhoContrato = contrato.Tamanho
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(existente)
}

// BaixarContrato devolve o PDF anexado ao fechamento
func (h *Handler) BaixarContrato(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	f, err := h.Repository.BuscarPorID(h.DB, auth.EscopoDaRequisicao(r), uint(id))
	if err != nil {
		http.Error(w, "fechamento não encontrado", http.StatusNotFound)
		return
	}
	if f.ArquivoContrato == "" {
		http.Error(w, "contrato não encontrado", http.StatusNotFound)
		return
	}
	dados, err := h.Armazenamento.Carregar(r.Context(), f.ArquivoContrato)
	if err != nil {
		http.Error(w, "erro ao baixar contrato: "+err.Error(), http.StatusInternalServerError)
		return
	}
	nome := f.NomeArquivoContrato
	if nome == "" {
		nome = "contrato.pdf"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+nome+`"`)
	w.Write(dados)
}

// Aprovar marca o fechamento como aprovado (admin)
func (h *Handler) Aprovar(w http.ResponseWriter, r *http.Request) {
	h.mudarAprovacao(w, r, AprovacaoAprovado)
}

// Reprovar marca o fechamento como reprovado (admin)
func (h *Handler) Reprovar(w http.ResponseWriter, r *http.Request) {
	h.mudarAprovacao(w, r, AprovacaoReprovado)
}

func (h *Handler) mudarAprovacao(w http.ResponseWriter, r *http.Request, status string) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	f, err := h.Repository.BuscarPorID(h.DB, auth.EscopoDaRequisicao(r), uint(id))
	if err != nil {
		http.Error(w, "fechamento não encontrado", http.StatusNotFound)
		return
	}
	if err := h.Repository.AtualizarAprovacao(h.DB, f.ID, status); err != nil {
		http.Error(w, "erro ao atualizar aprovação: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"statusAprovacao": status})
}

// Deletar remove o fechamento e, em melhor esforço, o blob do contrato.
// A exclusão no banco já está confirmada; falha na limpeza do blob é
// registrada em log e nunca desfaz a exclusão.
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	f, err := h.Repository.BuscarPorID(h.DB, auth.EscopoDaRequisicao(r), uint(id))
	if err != nil {
		http.Error(w, "fechamento não encontrado", http.StatusNotFound)
		return
	}
	if err := h.Repository.Deletar(h.DB, f.ID); err != nil {
		http.Error(w, "erro ao excluir fechamento: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if f.ArquivoContrato != "" {
		if rmErr := h.Armazenamento.Remover(r.Context(), f.ArquivoContrato); rmErr != nil {
			logrus.WithError(rmErr).WithField("chave", f.ArquivoContrato).
				Warn("contrato não pôde ser removido do armazenamento")
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("fechamento excluído com sucesso"))
}
