package config

import (
	"errors"
	"sync"
)

// ErrVendedorDesconhecido indica um id de vendedor fora da tabela
var ErrVendedorDesconhecido = errors.New("vendedor desconhecido")

// Vendedor é uma entrada da enumeração fechada de vendedores
type Vendedor struct {
	ID    string `json:"id"`
	Nome  string `json:"nome"`
	Ativo bool   `json:"ativo"`
}

// SellerStore guarda a tabela de vendedores atrás de um mutex. Substitui
// a configuração global mutável do sistema anterior: leituras devolvem
// cópias e atualizações devolvem o novo snapshot da entrada.
type SellerStore struct {
	mu         sync.RWMutex
	vendedores map[string]Vendedor
	ordem      []string
}

func NewSellerStore(seed []VendedorConfig) *SellerStore {
	s := &SellerStore{vendedores: make(map[string]Vendedor, len(seed))}
	for _, v := range seed {
		s.vendedores[v.ID] = Vendedor{ID: v.ID, Nome: v.Nome, Ativo: v.Ativo}
		s.ordem = append(s.ordem, v.ID)
	}
	return s
}

// Todos devolve a tabela inteira na ordem de carga
func (s *SellerStore) Todos() []Vendedor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Vendedor, 0, len(s.ordem))
	for _, id := range s.ordem {
		out = append(out, s.vendedores[id])
	}
	return out
}

// Opcoes devolve apenas os vendedores ativos
func (s *SellerStore) Opcoes() []Vendedor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Vendedor, 0, len(s.ordem))
	for _, id := range s.ordem {
		if v := s.vendedores[id]; v.Ativo {
			out = append(out, v)
		}
	}
	return out
}

// Get devolve uma cópia da entrada
func (s *SellerStore) Get(id string) (Vendedor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vendedores[id]
	return v, ok
}

// Ativo responde se o id pertence a um vendedor ativo
func (s *SellerStore) Ativo(id string) bool {
	v, ok := s.Get(id)
	return ok && v.Ativo
}

// Nome devolve o nome de exibição; para id desconhecido devolve o próprio id
func (s *SellerStore) Nome(id string) string {
	if v, ok := s.Get(id); ok {
		return v.Nome
	}
	return id
}

// AtualizarNome troca o nome de exibição e devolve o novo snapshot
func (s *SellerStore) AtualizarNome(id, nome string) (Vendedor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vendedores[id]
	if !ok {
		return Vendedor{}, ErrVendedorDesconhecido
	}
	v.Nome = nome
	s.vendedores[id] = v
	return v, nil
}

// DefinirAtivo liga/desliga o vendedor e devolve o novo snapshot
func (s *SellerStore) DefinirAtivo(id string, ativo bool) (Vendedor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vendedores[id]
	if !ok {
		return Vendedor{}, ErrVendedorDesconhecido
	}
	v.Ativo = ativo
	s.vendedores[id] = v
	return v, nil
}
