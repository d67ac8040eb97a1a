package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vigia-ops/alvo-engine/pkg/apperrors"
	"github.com/vigia-ops/alvo-engine/pkg/jsonutil"
	"github.com/vigia-ops/alvo-engine/pkg/models"
)

// Submission modes accepted by the form endpoint.
const (
	ModoCreate = "create"
	ModoEdicao = "edicao"
)

const dateLayout = "2006-01-02"

// CadastrarAlvoRequest is the form submission payload. Field names mirror the
// browser form, which predates this server; complemento and obs_tacticas are
// the form's names for the address reference point and tactical observations.
type CadastrarAlvoRequest struct {
	Modo     string          `json:"modo"`
	IDEdicao json.RawMessage `json:"idEdicao"`

	Nome           string `json:"nome" validate:"required"`
	CPF            string `json:"cpf"`
	RG             string `json:"rg"`
	DataNascimento string `json:"data_nascimento"`
	Naturalidade   string `json:"naturalidade"`
	UFNatural      string `json:"uf_natural"`
	Mae            string `json:"mae"`
	Pai            string `json:"pai"`

	Rua         string `json:"rua"`
	Numero      string `json:"numero"`
	Bairro      string `json:"bairro"`
	Cidade      string `json:"cidade"`
	UFEndereco  string `json:"uf_endereco"`
	LinkMapa    string `json:"link_mapa"`
	Complemento string `json:"complemento"`
	ObsTaticas  string `json:"obs_tacticas"`

	Foto1 *string `json:"foto1"`
	Foto2 *string `json:"foto2"`
	Foto3 *string `json:"foto3"`

	EnvolvimentoAlvo string `json:"envolvimento_alvo"`
	DetalhesOperacao string `json:"detalhes_operacao"`

	Documentos []DocumentoPayload `json:"documentos"`
}

// DocumentoPayload is one attached document as submitted by the form. The
// form has shipped two generations of field names, so UnmarshalJSON accepts
// both and produces one canonical record: filename from nome_arquivo or nome,
// content from arquivo_base64 or conteudo_base64.
type DocumentoPayload struct {
	Tipo          string
	NomeArquivo   string
	Descricao     string
	ArquivoBase64 string
	MimeType      string
}

// UnmarshalJSON normalizes the flexible field-naming contract at the boundary
// so the write path only ever sees one shape.
func (d *DocumentoPayload) UnmarshalJSON(data []byte) error {
	var raw struct {
		Tipo          json.RawMessage `json:"tipo"`
		TipoDocumento json.RawMessage `json:"tipo_documento"`
		NomeArquivo   json.RawMessage `json:"nome_arquivo"`
		Nome          json.RawMessage `json:"nome"`
		Descricao     json.RawMessage `json:"descricao"`
		ArquivoBase64 json.RawMessage `json:"arquivo_base64"`
		ConteudoB64   json.RawMessage `json:"conteudo_base64"`
		MimeType      json.RawMessage `json:"mime_type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.Tipo = jsonutil.FirstNonEmpty(raw.Tipo, raw.TipoDocumento)
	if d.Tipo == "" {
		d.Tipo = models.DefaultTipoDocumento
	}
	d.NomeArquivo = jsonutil.FirstNonEmpty(raw.NomeArquivo, raw.Nome)
	d.Descricao = jsonutil.FlexibleString(raw.Descricao)
	d.ArquivoBase64 = jsonutil.FirstNonEmpty(raw.ArquivoBase64, raw.ConteudoB64)
	d.MimeType = jsonutil.FlexibleString(raw.MimeType)
	if d.MimeType == "" {
		d.MimeType = models.DefaultMimeType
	}

	return nil
}

// ToModel converts the request into the domain aggregate.
func (r *CadastrarAlvoRequest) ToModel() (*models.Alvo, error) {
	alvo := &models.Alvo{
		Nome:         r.Nome,
		CPF:          r.CPF,
		RG:           r.RG,
		Naturalidade: r.Naturalidade,
		UFNatural:    r.UFNatural,
		Mae:          r.Mae,
		Pai:          r.Pai,
		Endereco: models.Endereco{
			Rua:                r.Rua,
			Numero:             r.Numero,
			Bairro:             r.Bairro,
			Cidade:             r.Cidade,
			UFEndereco:         r.UFEndereco,
			LinkMapa:           r.LinkMapa,
			PontoReferencia:    r.Complemento,
			ObservacoesTaticas: r.ObsTaticas,
		},
		Fotos: models.Fotos{
			Foto1: r.Foto1,
			Foto2: r.Foto2,
			Foto3: r.Foto3,
		},
		Inteligencia: models.Inteligencia{
			EnvolvimentoAlvo: r.EnvolvimentoAlvo,
			DetalhesOperacao: r.DetalhesOperacao,
		},
	}

	if r.DataNascimento != "" {
		nascimento, err := time.Parse(dateLayout, r.DataNascimento)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid data_nascimento %q", apperrors.ErrValidation, r.DataNascimento)
		}
		alvo.DataNascimento = &nascimento
	}

	for _, doc := range r.Documentos {
		alvo.Documentos = append(alvo.Documentos, models.Documento{
			TipoDocumento: doc.Tipo,
			NomeArquivo:   doc.NomeArquivo,
			Descricao:     doc.Descricao,
			ArquivoBase64: doc.ArquivoBase64,
			MimeType:      doc.MimeType,
		})
	}

	return alvo, nil
}

// EditID extracts the edit target id, tolerating clients that serialize it as
// a number or quoted string.
func (r *CadastrarAlvoRequest) EditID() string {
	return jsonutil.FlexibleString(r.IDEdicao)
}
