package fechamento

import (
	"gorm.io/gorm"

	"github.com/imoblink/api-imobiliaria/internal/perfil"
)

type Repository interface {
	Salvar(db *gorm.DB, f *Fechamento) error
	BuscarPorID(db *gorm.DB, escopo perfil.Escopo, id uint) (*Fechamento, error)
	Listar(db *gorm.DB, escopo perfil.Escopo) ([]Fechamento, error)
	Atualizar(db *gorm.DB, f *Fechamento) error
	AtualizarAprovacao(db *gorm.DB, id uint, status string) error
	AnexarContrato(db *gorm.DB, id uint, chave, nome string, tamanho int64) error
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

func (r *repositoryImpl) Salvar(db *gorm.DB, f *Fechamento) error {
	return db.Create(f).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, escopo perfil.Escopo, id uint) (*Fechamento, error) {
	var f Fechamento
	err := comEscopo(db, escopo).First(&f, id).Error
	return &f, err
}

func (r *repositoryImpl) Listar(db *gorm.DB, escopo perfil.Escopo) ([]Fechamento, error) {
	var lista []Fechamento
	err := comEscopo(db.Order("data_fechamento DESC"), escopo).Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, f *Fechamento) error {
	return db.Save(f).Error
}

func (r *repositoryImpl) AtualizarAprovacao(db *gorm.DB, id uint, status string) error {
	return db.Model(&Fechamento{}).Where("id = ?", id).Update("status_aprovacao", status).Error
}

func (r *repositoryImpl) AnexarContrato(db *gorm.DB, id uint, chave, nome string, tamanho int64) error {
	return db.Model(&Fechamento{}).Where("id = ?", id).Updates(map[string]interface{}{
		"arquivo_contrato":      chave,
		"nome_arquivo_contrato": nome,
		"tamanho_contrato":      tamanho,
	}).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uint) error {
	return db.Delete(&Fechamento{}, id).Error
}
