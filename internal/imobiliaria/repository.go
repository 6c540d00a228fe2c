package imobiliaria

import "gorm.io/gorm"

type Repository interface {
	Salvar(db *gorm.DB, i *Imobiliaria) error
	BuscarPorID(db *gorm.DB, id uint) (*Imobiliaria, error)
	ListarTodas(db *gorm.DB) ([]Imobiliaria, error)
	Atualizar(db *gorm.DB, i *Imobiliaria) error
	Cidades(db *gorm.DB) ([]string, error)
	Estados(db *gorm.DB) ([]string, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, i *Imobiliaria) error {
	return db.Create(i).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Imobiliaria, error) {
	var i Imobiliaria
	err := db.First(&i, id).Error
	return &i, err
}

func (r *repositoryImpl) ListarTodas(db *gorm.DB) ([]Imobiliaria, error) {
	var lista []Imobiliaria
	err := db.Order("nome").Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, i *Imobiliaria) error {
	return db.Save(i).Error
}

func (r *repositoryImpl) Cidades(db *gorm.DB) ([]string, error) {
	var cidades []string
	err := db.Model(&Imobiliaria{}).Where("cidade <> ''").Distinct().Order("cidade").Pluck("cidade", &cidades).Error
	return cidades, err
}

func (r *repositoryImpl) Estados(db *gorm.DB) ([]string, error) {
	var estados []string
	err := db.Model(&Imobiliaria{}).Where("estado <> ''").Distinct().Order("estado").Pluck("estado", &estados).Error
	return estados, err
}
