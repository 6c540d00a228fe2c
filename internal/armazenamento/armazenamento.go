package armazenamento

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Driver guarda blobs (contratos em PDF) fora do banco.
// Implementações: S3 e sistema de arquivos local.
type Driver interface {
	Salvar(ctx context.Context, chave string, dados []byte) error
	Carregar(ctx context.Context, chave string) ([]byte, error)
	Remover(ctx context.Context, chave string) error
}

// GerarChaveContrato monta uma chave resistente a colisão para um contrato.
// O nome enviado pelo cliente nunca entra na chave; fica só como metadado.
func GerarChaveContrato() string {
	sufixo := uuid.NewString()[:8]
	return fmt.Sprintf("contratos/%d-%s.pdf", time.Now().Unix(), sufixo)
}
