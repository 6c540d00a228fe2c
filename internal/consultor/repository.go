package consultor

import (
	"gorm.io/gorm"

	"github.com/imoblink/api-imobiliaria/internal/perfil"
	"github.com/imoblink/api-imobiliaria/internal/utils"
)

type Repository interface {
	Salvar(db *gorm.DB, c *Consultor) error
	BuscarPorID(db *gorm.DB, id uint) (*Consultor, error)
	BuscarPorEmail(db *gorm.DB, email string) (*Consultor, error)
	BuscarAdminPorEmail(db *gorm.DB, email string) (*Consultor, error)
	Listar(db *gorm.DB, escopo perfil.Escopo) ([]Consultor, error)
	Atualizar(db *gorm.DB, c *Consultor) error
	EmailEmUso(db *gorm.DB, email string, ignorarID uint) (bool, error)
	CPFEmUso(db *gorm.DB, cpf string, ignorarID uint) (bool, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, c *Consultor) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Consultor, error) {
	var c Consultor
	err := db.First(&c, id).Error
	return &c, err
}

// BuscarPorEmail compara sempre pelo e-mail normalizado.
func (r *repositoryImpl) BuscarPorEmail(db *gorm.DB, email string) (*Consultor, error) {
	var c Consultor
	err := db.Where("email = ?", utils.NormalizarEmail(email)).First(&c).Error
	return &c, err
}

func (r *repositoryImpl) BuscarAdminPorEmail(db *gorm.DB, email string) (*Consultor, error) {
	var c Consultor
	err := db.Where("email = ? AND perfil = ?", utils.NormalizarEmail(email), perfil.Admin).First(&c).Error
	return &c, err
}

// Listar devolve todos para admin; um consultor vê só o próprio registro.
func (r *repositoryImpl) Listar(db *gorm.DB, escopo perfil.Escopo) ([]Consultor, error) {
	var lista []Consultor
	q := db.Order("nome")
	if !escopo.Admin() {
		q = q.Where("id = ?", escopo.ConsultorID)
	}
	err := q.Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, c *Consultor) error {
	return db.Save(c).Error
}

func (r *repositoryImpl) EmailEmUso(db *gorm.DB, email string, ignorarID uint) (bool, error) {
	var n int64
	err := db.Model(&Consultor{}).
		Where("email = ? AND id <> ?", utils.NormalizarEmail(email), ignorarID).
		Count(&n).Error
	return n > 0, err
}

func (r *repositoryImpl) CPFEmUso(db *gorm.DB, cpf string, ignorarID uint) (bool, error) {
	var n int64
	err := db.Model(&Consultor{}).
		Where("cpf = ? AND id <> ?", utils.SomenteDigitos(cpf), ignorarID).
		Count(&n).Error
	return n > 0, err
}
