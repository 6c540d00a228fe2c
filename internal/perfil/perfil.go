package perfil

// Perfil é o papel do usuário autenticado.
type Perfil string

const (
	Admin     Perfil = "admin"
	Consultor Perfil = "consultor"
)

// Escopo restringe toda consulta ao que o chamador pode enxergar.
// Admin enxerga tudo; consultor enxerga apenas registros ligados ao
// próprio ConsultorID (direta ou transitivamente via agendamentos).
// Cada repository aplica o filtro a partir deste valor, em vez de
// re-derivar condições isAdmin espalhadas pelos handlers.
type Escopo struct {
	Perfil      Perfil
	ConsultorID uint
}

// Admin informa se o escopo é irrestrito.
func (e Escopo) Admin() bool {
	return e.Perfil == Admin
}
