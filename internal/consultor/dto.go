package consultor

import "github.com/imoblink/api-imobiliaria/internal/perfil"

// UsuarioDTO é a identidade devolvida no login, sem o hash de senha.
type UsuarioDTO struct {
	ID          uint          `json:"id"`
	Nome        string        `json:"nome"`
	Email       string        `json:"email"`
	Perfil      perfil.Perfil `json:"perfil"`
	ConsultorID uint          `json:"consultorId,omitempty"`
}

type loginResponse struct {
	Token   string     `json:"token"`
	Usuario UsuarioDTO `json:"usuario"`
}

func montarUsuarioDTO(c Consultor) UsuarioDTO {
	dto := UsuarioDTO{
		ID:     c.ID,
		Nome:   c.Nome,
		Email:  c.Email,
		Perfil: c.Perfil,
	}
	if c.Perfil == perfil.Consultor {
		dto.ConsultorID = c.ID
	}
	return dto
}
