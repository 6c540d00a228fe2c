package auth

import (
	"encoding/json"
	"net/http"

	"github.com/imoblink/api-imobiliaria/internal/perfil"
)

type usuarioDTO struct {
	ID          uint          `json:"id"`
	Nome        string        `json:"nome"`
	Perfil      perfil.Perfil `json:"perfil"`
	ConsultorID uint          `json:"consultorId,omitempty"`
}

// VerificarToken confirma que o token do chamador é válido e devolve a identidade.
func VerificarToken(w http.ResponseWriter, r *http.Request) {
	id, _ := r.Context().Value(UsuarioIDKey).(uint)
	nome, _ := r.Context().Value(NomeKey).(string)
	p, _ := r.Context().Value(PerfilKey).(perfil.Perfil)
	cid, _ := r.Context().Value(ConsultorIDKey).(uint)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"valido":  true,
		"usuario": usuarioDTO{ID: id, Nome: nome, Perfil: p, ConsultorID: cid},
	})
}

// Logout é stateless: o cliente descarta o token.
func Logout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"mensagem": "sessão encerrada"})
}
