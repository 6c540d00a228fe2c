package cliente

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/imoblink/api-imobiliaria/internal/auth"
	"github.com/imoblink/api-imobiliaria/internal/perfil"
)

// fakeRepository guarda clientes em memória com a mesma semântica de
// escopo e de atribuição condicional do repository real: um consultor
// enxerga clientes próprios ou visitados pelos seus agendamentos.
type fakeRepository struct {
	mu       sync.Mutex
	seq      uint
	clientes map[uint]*Cliente
	visitas  map[uint][]uint // clienteID -> consultores com agendamento
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{clientes: map[uint]*Cliente{}, visitas: map[uint][]uint{}}
}

func (f *fakeRepository) agendar(clienteID, consultorID uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visitas[clienteID] = append(f.visitas[clienteID], consultorID)
}

func (f *fakeRepository) visivel(c *Cliente, e perfil.Escopo) bool {
	if e.Admin() {
		return true
	}
	if c.ConsultorID != nil && *c.ConsultorID == e.ConsultorID {
		return true
	}
	for _, cid := range f.visitas[c.ID] {
		if cid == e.ConsultorID {
			return true
		}
	}
	return false
}

func (f *fakeRepository) Salvar(db *gorm.DB, c *Cliente) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	c.ID = f.seq
	copia := *c
	f.clientes[c.ID] = &copia
	return nil
}

func (f *fakeRepository) BuscarPorID(db *gorm.DB, e perfil.Escopo, id uint) (*Cliente, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clientes[id]
	if !ok || !f.visivel(c, e) {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *c
	return &copia, nil
}

func (f *fakeRepository) Listar(db *gorm.DB, e perfil.Escopo) ([]Cliente, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var lista []Cliente
	for _, c := range f.clientes {
		if f.visivel(c, e) {
			lista = append(lista, *c)
		}
	}
	return lista, nil
}

func (f *fakeRepository) Atualizar(db *gorm.DB, c *Cliente) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copia := *c
	f.clientes[c.ID] = &copia
	return nil
}

func (f *fakeRepository) DefinirStatus(db *gorm.DB, id uint, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.clientes[id]; ok {
		c.Status = status
	}
	return nil
}

func (f *fakeRepository) ListarNaoAtribuidos(db *gorm.DB) ([]Cliente, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var lista []Cliente
	for _, c := range f.clientes {
		if c.ConsultorID == nil {
			lista = append(lista, *c)
		}
	}
	return lista, nil
}

func (f *fakeRepository) Existe(db *gorm.DB, id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.clientes[id]
	return ok, nil
}

func (f *fakeRepository) Atribuir(db *gorm.DB, clienteID, consultorID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clientes[clienteID]
	if !ok || c.ConsultorID != nil {
		return false, nil
	}
	c.ConsultorID = &consultorID
	return true, nil
}

func (f *fakeRepository) IDsVisiveis(db *gorm.DB, e perfil.Escopo) ([]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uint
	for id, c := range f.clientes {
		if f.visivel(c, e) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeRepository) ContarPorIDs(db *gorm.DB, ids []uint) (int64, error) {
	return int64(len(ids)), nil
}

func (f *fakeRepository) ContarTodos(db *gorm.DB) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.clientes)), nil
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}

func comContexto(r *http.Request, p perfil.Perfil, consultorID uint) *http.Request {
	ctx := context.WithValue(r.Context(), auth.UsuarioIDKey, consultorID)
	ctx = context.WithValue(ctx, auth.NomeKey, "Teste")
	ctx = context.WithValue(ctx, auth.PerfilKey, p)
	ctx = context.WithValue(ctx, auth.ConsultorIDKey, consultorID)
	return r.WithContext(ctx)
}

func TestPegarLeadConcorrente(t *testing.T) {
	repo := newFakeRepository()
	require.NoError(t, repo.Salvar(nil, &Cliente{Nome: "Lead Disputado", Status: StatusLead}))

	h := &Handler{Repository: repo}
	router := mux.NewRouter()
	router.HandleFunc("/api/novos-leads/{id}/pegar", h.PegarLead).Methods("PUT")

	resultados := make(chan int, 2)
	var wg sync.WaitGroup
	for _, consultorID := range []uint{1, 2} {
		wg.Add(1)
		go func(cid uint) {
			defer wg.Done()
			req := httptest.NewRequest("PUT", "/api/novos-leads/1/pegar", nil)
			req = comContexto(req, perfil.Consultor, cid)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			resultados <- rec.Code
		}(consultorID)
	}
	wg.Wait()
	close(resultados)

	sucesso, rejeitado := 0, 0
	for code := range resultados {
		switch code {
		case http.StatusOK:
			sucesso++
		case http.StatusBadRequest:
			rejeitado++
		}
	}
	assert.Equal(t, 1, sucesso, "exatamente um consultor deve vencer")
	assert.Equal(t, 1, rejeitado, "o outro deve receber 'lead já atribuído'")
}

func TestPegarLeadInexistente(t *testing.T) {
	h := &Handler{Repository: newFakeRepository()}
	router := mux.NewRouter()
	router.HandleFunc("/api/novos-leads/{id}/pegar", h.PegarLead).Methods("PUT")

	req := comContexto(httptest.NewRequest("PUT", "/api/novos-leads/99/pegar", nil), perfil.Consultor, 1)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListagemNaoVazaClientesDeOutroConsultor(t *testing.T) {
	repo := newFakeRepository()
	dono := uint(1)
	outro := uint(2)
	require.NoError(t, repo.Salvar(nil, &Cliente{Nome: "Meu", ConsultorID: &dono}))
	require.NoError(t, repo.Salvar(nil, &Cliente{Nome: "Alheio", ConsultorID: &outro}))
	require.NoError(t, repo.Salvar(nil, &Cliente{Nome: "Pool"}))

	h := &Handler{Repository: repo}
	req := comContexto(httptest.NewRequest("GET", "/api/clientes", nil), perfil.Consultor, dono)
	rec := httptest.NewRecorder()
	h.Listar(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var lista []Cliente
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&lista))
	require.Len(t, lista, 1)
	assert.Equal(t, "Meu", lista[0].Nome)
}

func TestListagemIncluiClienteVisitadoPorAgendamento(t *testing.T) {
	repo := newFakeRepository()
	dono := uint(2)
	require.NoError(t, repo.Salvar(nil, &Cliente{Nome: "Visitado", ConsultorID: &dono}))
	require.NoError(t, repo.Salvar(nil, &Cliente{Nome: "Invisível", ConsultorID: &dono}))
	// o consultor 1 não é dono, mas tem agendamento com o cliente 1
	repo.agendar(1, 1)

	h := &Handler{Repository: repo}
	req := comContexto(httptest.NewRequest("GET", "/api/clientes", nil), perfil.Consultor, 1)
	rec := httptest.NewRecorder()
	h.Listar(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var lista []Cliente
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&lista))
	require.Len(t, lista, 1)
	assert.Equal(t, "Visitado", lista[0].Nome)

	ids, err := repo.IDsVisiveis(nil, perfil.Escopo{Perfil: perfil.Consultor, ConsultorID: 1})
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, ids)
}

func TestConsultorIDNuloNormaliza(t *testing.T) {
	casos := map[string]bool{ // payload -> valor deve ser nil
		`{"consultorId": ""}`:   true,
		`{"consultorId": null}`: true,
		`{"consultorId": 0}`:    true,
		`{"consultorId": "7"}`:  false,
		`{"consultorId": 7}`:    false,
	}
	for payload, esperaNulo := range casos {
		var req atualizarClienteRequest
		require.NoError(t, json.Unmarshal([]byte(payload), &req), payload)
		assert.True(t, req.ConsultorID.Definido, payload)
		if esperaNulo {
			assert.Nil(t, req.ConsultorID.Valor, payload)
		} else {
			require.NotNil(t, req.ConsultorID.Valor, payload)
			assert.Equal(t, uint(7), *req.ConsultorID.Valor, payload)
		}
	}

	var req atualizarClienteRequest
	require.NoError(t, json.Unmarshal([]byte(`{"nome":"x"}`), &req))
	assert.False(t, req.ConsultorID.Definido)
}

func TestCadastroLeadValidacao(t *testing.T) {
	h := &Handler{Repository: newFakeRepository()}

	req := httptest.NewRequest("POST", "/api/leads/cadastro",
		jsonBody(`{"nome":"Fulano","telefone":"123"}`))
	rec := httptest.NewRecorder()
	h.CadastroLead(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest("POST", "/api/leads/cadastro",
		jsonBody(`{"nome":"Fulano","telefone":"11987654321"}`))
	rec = httptest.NewRecorder()
	h.CadastroLead(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var criado Cliente
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&criado))
	assert.Equal(t, StatusLead, criado.Status)
	assert.Nil(t, criado.ConsultorID)
}
