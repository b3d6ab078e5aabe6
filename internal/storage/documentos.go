package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DocumentoStore é o armazenamento opaco de documentos fiscais; o pedido
// guarda apenas o caminho relativo devolvido por Salvar
type DocumentoStore interface {
	Salvar(ctx context.Context, nomeOriginal string, conteudo io.Reader) (string, error)
	Abrir(ctx context.Context, caminho string) (io.ReadCloser, error)
	Remover(ctx context.Context, caminho string) error
}

// FSDocumentos guarda documentos no sistema de arquivos local sob
// <raiz>/documentos_fiscais, com nome gerado para evitar colisão
type FSDocumentos struct {
	raiz string
}

func NewFSDocumentos(raiz string) *FSDocumentos { return &FSDocumentos{raiz: raiz} }

var _ DocumentoStore = (*FSDocumentos)(nil)

func (s *FSDocumentos) Salvar(_ context.Context, nomeOriginal string, conteudo io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(nomeOriginal))
	if ext == "" {
		ext = ".pdf"
	}
	rel := path.Join("documentos_fiscais", uuid.NewString()+ext)

	destino := filepath.Join(s.raiz, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(destino), 0o755); err != nil {
		return "", fmt.Errorf("falha ao preparar diretório de documentos: %w", err)
	}
	f, err := os.Create(destino)
	if err != nil {
		return "", fmt.Errorf("falha ao criar documento: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, conteudo); err != nil {
		os.Remove(destino)
		return "", fmt.Errorf("falha ao gravar documento: %w", err)
	}
	return rel, nil
}

func (s *FSDocumentos) Abrir(_ context.Context, caminho string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.raiz, filepath.FromSlash(caminho)))
}

func (s *FSDocumentos) Remover(_ context.Context, caminho string) error {
	return os.Remove(filepath.Join(s.raiz, filepath.FromSlash(caminho)))
}
