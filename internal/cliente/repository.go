package cliente

import (
	"gorm.io/gorm"

	"github.com/imoblink/api-imobiliaria/internal/perfil"
)

type Repository interface {
	Salvar(db *gorm.DB, c *Cliente) error
	BuscarPorID(db *gorm.DB, escopo perfil.Escopo, id uint) (*Cliente, error)
	Listar(db *gorm.DB, escopo perfil.Escopo) ([]Cliente, error)
	Atualizar(db *gorm.DB, c *Cliente) error
	DefinirStatus(db *gorm.DB, clienteID uint, status string) error
	ListarNaoAtribuidos(db *gorm.DB) ([]Cliente, error)
	Existe(db *gorm.DB, id uint) (bool, error)
	Atribuir(db *gorm.DB, clienteID, consultorID uint) (bool, error)
	IDsVisiveis(db *gorm.DB, escopo perfil.Escopo) ([]uint, error)
	ContarPorIDs(db *gorm.DB, ids []uint) (int64, error)
	ContarTodos(db *gorm.DB) (int64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

// comEscopo restringe a consulta ao que o chamador enxerga: um consultor
// vê clientes próprios ou alcançáveis pelos seus agendamentos.
func comEscopo(q *gorm.DB, e perfil.Escopo) *gorm.DB {
	if e.Admin() {
		return q
	}
	return q.Where(
		"consultor_id = ? OR id IN (SELECT cliente_id FROM agendamentos WHERE consultor_id = ? AND deleted_at IS NULL)",
		e.ConsultorID, e.ConsultorID,
	)
}

func (r *repositoryImpl) Salvar(db *gorm.DB, c *Cliente) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, escopo perfil.Escopo, id uint) (*Cliente, error) {
	var c Cliente
	err := comEscopo(db, escopo).First(&c, id).Error
	return &c, err
}

func (r *repositoryImpl) Listar(db *gorm.DB, escopo perfil.Escopo) ([]Cliente, error) {
	var lista []Cliente
	err := comEscopo(db.Order("created_at DESC"), escopo).Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, c *Cliente) error {
	// Save grava todos os campos; ConsultorID nil volta a NULL (lead solto)
	return db.Save(c).Error
}

// DefinirStatus é o único ponto onde os fluxos de agendamento mudam o
// status do cliente (o status do cliente espelha o último agendamento).
func (r *repositoryImpl) DefinirStatus(db *gorm.DB, clienteID uint, status string) error {
	return db.Model(&Cliente{}).Where("id = ?", clienteID).Update("status", status).Error
}

func (r *repositoryImpl) ListarNaoAtribuidos(db *gorm.DB) ([]Cliente, error) {
	var lista []Cliente
	err := db.Where("consultor_id IS NULL").Order("created_at DESC").Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) Existe(db *gorm.DB, id uint) (bool, error) {
	var n int64
	err := db.Model(&Cliente{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// Atribuir pega um lead do pool. O UPDATE condicionado a consultor_id IS NULL
// garante que, entre duas tentativas concorrentes, só uma vence.
func (r *repositoryImpl) Atribuir(db *gorm.DB, clienteID, consultorID uint) (bool, error) {
	res := db.Model(&Cliente{}).
		Where("id = ? AND consultor_id IS NULL", clienteID).
		Update("consultor_id", consultorID)
	return res.RowsAffected > 0, res.Error
}

// IDsVisiveis retorna os ids distintos de clientes no escopo do chamador.
func (r *repositoryImpl) IDsVisiveis(db *gorm.DB, escopo perfil.Escopo) ([]uint, error) {
	var ids []uint
	err := comEscopo(db.Model(&Cliente{}), escopo).Distinct().Pluck("id", &ids).Error
	return ids, err
}

// ContarPorIDs conta clientes dentro do conjunto informado; conjunto
// vazio é zero determinístico, nunca degrada para "todos".
func (r *repositoryImpl) ContarPorIDs(db *gorm.DB, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := db.Model(&Cliente{}).Where("id IN ?", ids).Count(&n).Error
	return n, err
}

func (r *repositoryImpl) ContarTodos(db *gorm.DB) (int64, error) {
	var n int64
	err := db.Model(&Cliente{}).Count(&n).Error
	return n, err
}
