package armazenamento

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Local guarda blobs no sistema de arquivos, para desenvolvimento e testes.
type Local struct {
	dir string
}

// NovoLocal retorna um driver de arquivos sob o diretório informado.
func NovoLocal(dir string) *Local {
	return &Local{dir: dir}
}

func (l *Local) caminho(chave string) string {
	// chaves com ".." nunca escapam do diretório base
	limpa := filepath.Clean("/" + strings.ReplaceAll(chave, "\\", "/"))
	return filepath.Join(l.dir, filepath.FromSlash(limpa))
}

func (l *Local) Salvar(ctx context.Context, chave string, dados []byte) error {
	destino := l.caminho(chave)
	if err := os.MkdirAll(filepath.Dir(destino), 0o755); err != nil {
		return err
	}
	return os.WriteFile(destino, dados, 0o644)
}

func (l *Local) Carregar(ctx context.Context, chave string) ([]byte, error) {
	return os.ReadFile(l.caminho(chave))
}

func (l *Local) Remover(ctx context.Context, chave string) error {
	return os.Remove(l.caminho(chave))
}
