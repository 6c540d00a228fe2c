package fechamento

import "gorm.io/gorm"

// Aprovação do fechamento pelo admin.
const (
	AprovacaoPendente  = "pendente"
	AprovacaoAprovado  = "aprovado"
	AprovacaoReprovado = "reprovado"
)

// Fechamento é uma venda concluída, com contrato em PDF anexado no
// armazenamento de blobs. ArquivoContrato guarda a chave gerada pelo
// servidor; o nome enviado pelo cliente fica só como metadado de exibição.
type Fechamento struct {
	gorm.Model
	ClienteID      uint    `json:"clienteId"`
	ConsultorID    uint    `json:"consultorId"`
	ImobiliariaID  uint    `json:"imobiliariaId"`
	AgendamentoID  *uint   `json:"agendamentoId"`
	Valor          float64 `json:"valor"`
	DataFechamento string  `json:"dataFechamento"`

	StatusAprovacao string `json:"statusAprovacao" gorm:"default:pendente"`

	ArquivoContrato     string `json:"arquivoContrato"`
	NomeArquivoContrato string `json:"nomeArquivoContrato"`
	TamanhoContrato     int64  `json:"tamanhoContrato"`
}
