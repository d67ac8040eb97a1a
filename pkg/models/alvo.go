// Package models contains domain types for alvo-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Alvo is the aggregate root of a dossier: the subject row plus its one-to-one
// dependents and attached documents. Callers treat it as one unit; the split
// across five tables is a persistence detail.
type Alvo struct {
	ID             uuid.UUID  `json:"id"`
	Nome           string     `json:"nome"`
	CPF            string     `json:"cpf"`           // normalized, digits only
	CPFFormatado   string     `json:"cpf_formatado"` // display form 000.000.000-00
	RG             string     `json:"rg"`
	DataNascimento *time.Time `json:"data_nascimento,omitempty"`
	Naturalidade   string     `json:"naturalidade"`
	UFNatural      string     `json:"uf_natural"`
	Mae            string     `json:"mae"`
	Pai            string     `json:"pai"`
	CriadoEm       time.Time  `json:"criado_em"`
	AtualizadoEm   time.Time  `json:"atualizado_em"`

	Endereco     Endereco     `json:"endereco"`
	Fotos        Fotos        `json:"fotos"`
	Inteligencia Inteligencia `json:"inteligencia"`
	Documentos   []Documento  `json:"documentos"`
}

// Endereco is the subject's address (one row per subject).
type Endereco struct {
	Rua                string `json:"rua"`
	Numero             string `json:"numero"`
	Bairro             string `json:"bairro"`
	Cidade             string `json:"cidade"`
	UFEndereco         string `json:"uf_endereco"`
	LinkMapa           string `json:"link_mapa"`
	PontoReferencia    string `json:"ponto_referencia"`
	ObservacoesTaticas string `json:"observacoes_taticas"`
}

// Fotos holds the three photo slots as base64 text. Slots are pointers so an
// update can distinguish "not supplied, keep the stored value" (nil) from
// "overwrite with this" (non-nil).
type Fotos struct {
	Foto1 *string `json:"foto1"`
	Foto2 *string `json:"foto2"`
	Foto3 *string `json:"foto3"`
}

// Inteligencia holds the free-text intelligence narrative for a subject.
type Inteligencia struct {
	EnvolvimentoAlvo string `json:"envolvimento_alvo"`
	DetalhesOperacao string `json:"detalhes_operacao"`
}

// Default values applied when a document arrives without them.
const (
	DefaultTipoDocumento = "Documento"
	DefaultMimeType      = "application/octet-stream"
)

// Documento is an attached file. Rows are bulk-inserted with the subject and
// replaced wholesale on edit, but each can be fetched or deleted by its own id.
type Documento struct {
	ID            uuid.UUID `json:"id"`
	AlvoID        uuid.UUID `json:"alvo_id"`
	TipoDocumento string    `json:"tipo_documento"`
	NomeArquivo   string    `json:"nome_arquivo"`
	Descricao     string    `json:"descricao"`
	ArquivoBase64 string    `json:"arquivo_base64"`
	MimeType      string    `json:"mime_type"`
	DataUpload    time.Time `json:"data_upload"`
}

// AlvoResumo is one search result row.
type AlvoResumo struct {
	ID   uuid.UUID `json:"id"`
	Nome string    `json:"nome"`
	CPF  string    `json:"cpf"` // display-formatted
}
