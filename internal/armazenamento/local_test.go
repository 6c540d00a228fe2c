package armazenamento

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSalvarCarregarRemover(t *testing.T) {
	driver := NovoLocal(t.TempDir())
	ctx := context.Background()
	chave := GerarChaveContrato()
	conteudo := []byte("%PDF-1.4\nconteudo")

	require.NoError(t, driver.Salvar(ctx, chave, conteudo))

	lido, err := driver.Carregar(ctx, chave)
	require.NoError(t, err)
	assert.Equal(t, conteudo, lido)

	require.NoError(t, driver.Remover(ctx, chave))
	_, err = driver.Carregar(ctx, chave)
	assert.Error(t, err)
}

func TestLocalChaveNaoEscapaDoDiretorio(t *testing.T) {
	base := t.TempDir()
	driver := NovoLocal(filepath.Join(base, "blobs"))
	ctx := context.Background()

	fora := filepath.Join(base, "fora.txt")
	require.NoError(t, os.WriteFile(fora, []byte("alvo"), 0o644))

	require.NoError(t, driver.Salvar(ctx, "../fora.txt", []byte("sobrescrito")))

	intacto, err := os.ReadFile(fora)
	require.NoError(t, err)
	assert.Equal(t, []byte("alvo"), intacto)
}

func TestGerarChaveContrato(t *testing.T) {
	a := GerarChaveContrato()
	b := GerarChaveContrato()

	assert.True(t, strings.HasPrefix(a, "contratos/"))
	assert.True(t, strings.HasSuffix(a, ".pdf"))
	assert.NotEqual(t, a, b)
}
