package auth

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/imoblink/api-imobiliaria/internal/perfil"
)

type ctxKey string

const (
	UsuarioIDKey   ctxKey = "usuarioID"
	NomeKey        ctxKey = "nome"
	PerfilKey      ctxKey = "perfil"
	ConsultorIDKey ctxKey = "consultorID"
)

// extrairToken busca o bearer token no header Authorization.
// Alguns clientes enviam o header com caixa trocada em requisições
// multipart/form-data, então caímos para uma varredura case-insensitive.
func extrairToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		for k, v := range r.Header {
			if strings.EqualFold(k, "authorization") && len(v) > 0 {
				h = v[0]
				break
			}
		}
	}
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

// MiddlewareAutenticacao valida o bearer token e injeta as claims no contexto.
// Token ausente responde 401; token inválido ou expirado responde 403.
func MiddlewareAutenticacao(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		raw := extrairToken(r)
		if raw == "" {
			http.Error(w, "Token ausente", http.StatusUnauthorized)
			return
		}
		claims, err := ValidarToken(raw)
		if err != nil {
			http.Error(w, "Token inválido", http.StatusForbidden)
			return
		}
		ctx := context.WithValue(r.Context(), UsuarioIDKey, claims.UserID)
		ctx = context.WithValue(ctx, NomeKey, claims.Nome)
		ctx = context.WithValue(ctx, PerfilKey, claims.Perfil)
		ctx = context.WithValue(ctx, ConsultorIDKey, claims.ConsultorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// EscopoDaRequisicao monta o escopo de consulta a partir das claims do contexto.
func EscopoDaRequisicao(r *http.Request) perfil.Escopo {
	p, _ := r.Context().Value(PerfilKey).(perfil.Perfil)
	cid, _ := r.Context().Value(ConsultorIDKey).(uint)
	return perfil.Escopo{Perfil: p, ConsultorID: cid}
}

// RequireAdmin só deixa passar chamadores com perfil admin.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := r.Context().Value(PerfilKey).(perfil.Perfil)
		if p != perfil.Admin {
			http.Error(w, "Acesso restrito a administradores", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireProprioConsultor deixa passar admins, ou consultores cujo id
// bate com o id implicado pela rota ({id}) ou pela query (consultorId).
func RequireProprioConsultor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := r.Context().Value(PerfilKey).(perfil.Perfil)
		if p == perfil.Admin {
			next.ServeHTTP(w, r)
			return
		}
		if p != perfil.Consultor {
			http.Error(w, "Acesso negado", http.StatusForbidden)
			return
		}
		proprio, _ := r.Context().Value(ConsultorIDKey).(uint)
		idStr := mux.Vars(r)["id"]
		if idStr == "" {
			idStr = r.URL.Query().Get("consultorId")
		}
		if idStr == "" {
			// sem id implicado, o escopo do repositório resolve
			next.ServeHTTP(w, r)
			return
		}
		id, err := strconv.Atoi(idStr)
		if err != nil || uint(id) != proprio {
			http.Error(w, "Acesso negado", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
