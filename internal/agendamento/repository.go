package agendamento

import (
	"gorm.io/gorm"

	"github.com/imoblink/api-imobiliaria/internal/perfil"
)

type Repository interface {
	Salvar(db *gorm.DB, a *Agendamento) error
	BuscarPorID(db *gorm.DB, escopo perfil.Escopo, id uint) (*Agendamento, error)
	Listar(db *gorm.DB, escopo perfil.Escopo) ([]Agendamento, error)
	ListarPorData(db *gorm.DB, escopo perfil.Escopo, data string) ([]Agendamento, error)
	ContarLembradosPorData(db *gorm.DB, escopo perfil.Escopo, data string) (int64, error)
	Atualizar(db *gorm.DB, a *Agendamento) error
	AtualizarStatus(db *gorm.DB, id uint, status string) error
	MarcarLembrado(db *gorm.DB, id uint, lembrado bool) error
	Deletar(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func comEscopo(q *gorm.DB, e perfil.Escopo) *gorm.DB {
	if e.Admin() {
		return q
	}
	return q.Where("consultor_id = ?", e.ConsultorID)
}

func (r *repositoryImpl) Salvar(db *gorm.DB, a *Agendamento) error {
	return db.Create(a).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, escopo perfil.Escopo, id uint) (*Agendamento, error) {
	var a Agendamento
	err := comEscopo(db, escopo).First(&a, id).Error
	return &a, err
}

func (r *repositoryImpl) Listar(db *gorm.DB, escopo perfil.Escopo) ([]Agendamento, error) {
	var lista []Agendamento
	err := comEscopo(db.Order("data DESC, hora DESC"), escopo).Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) ListarPorData(db *gorm.DB, escopo perfil.Escopo, data string) ([]Agendamento, error) {
	var lista []Agendamento
	err := comEscopo(db.Where("data = ?", data), escopo).Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) ContarLembradosPorData(db *gorm.DB, escopo perfil.Escopo, data string) (int64, error) {
	var n int64
	err := comEscopo(db.Model(&Agendamento{}).Where("data = ? AND lembrado", data), escopo).Count(&n).Error
	return n, err
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, a *Agendamento) error {
	return db.Save(a).Error
}

func (r *repositoryImpl) AtualizarStatus(db *gorm.DB, id uint, status string) error {
	return db.Model(&Agendamento{}).Where("id = ?", id).Update("status", status).Error
}

func (r *repositoryImpl) MarcarLembrado(db *gorm.DB, id uint, lembrado bool) error {
	return db.Model(&Agendamento{}).Where("id = ?", id).Update("lembrado", lembrado).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uint) error {
	return db.Delete(&Agendamento{}, id).Error
}
