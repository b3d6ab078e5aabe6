package service

import (
	"context"
	"errors"
	"fmt"

	"figureslab/internal/domain"
	"figureslab/internal/repository"
)

// ProdutoService encapsula o CRUD de produtos; a ficha técnica é validada
// contra as matérias-primas cadastradas e substituída por inteiro na
// atualização
type ProdutoService struct {
	repo     repository.ProdutoRepository
	materias repository.MateriaPrimaRepository
}

func NewProdutoService(repo repository.ProdutoRepository, materias repository.MateriaPrimaRepository) *ProdutoService {
	return &ProdutoService{repo: repo, materias: materias}
}

func (s *ProdutoService) validar(ctx context.Context, p domain.Produto) (*ValidationError, error) {
	campos := make(map[string]string)
	if p.Nome == "" {
		campos["nome"] = "O nome é obrigatório."
	}
	if p.Preco.IsNegative() {
		campos["preco"] = "O preço não pode ser negativo."
	}
	if p.Estoque < 0 {
		campos["estoque"] = "O estoque não pode ser negativo."
	}
	for i, mp := range p.MateriasPrimas {
		if mp.Quantidade.IsNegative() {
			campos[fmt.Sprintf("materiaPrima.%d.quantidade", i)] = "A quantidade não pode ser negativa."
			continue
		}
		if _, err := s.materias.GetByID(ctx, mp.MateriaPrimaID); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			campos[fmt.Sprintf("materiaPrima.%d.id", i)] = "Uma das matérias-primas selecionadas não existe."
		}
	}
	if len(campos) > 0 {
		return &ValidationError{Campos: campos}, nil
	}
	return nil, nil
}

func (s *ProdutoService) Create(ctx context.Context, p domain.Produto) (*domain.Produto, error) {
	verr, err := s.validar(ctx, p)
	if err != nil {
		return nil, err
	}
	if verr != nil {
		return nil, verr
	}
	cp := p
	if err := s.repo.Create(ctx, &cp); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cp.ID)
}

func (s *ProdutoService) GetByID(ctx context.Context, id int64) (*domain.Produto, error) {
	if id <= 0 {
		return nil, repository.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ProdutoService) Update(ctx context.Context, p domain.Produto) (*domain.Produto, error) {
	if p.ID <= 0 {
		return nil, repository.ErrNotFound
	}
	verr, err := s.validar(ctx, p)
	if err != nil {
		return nil, err
	}
	if verr != nil {
		return nil, verr
	}
	cp := p
	if err := s.repo.Update(ctx, &cp); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, cp.ID)
}

func (s *ProdutoService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return repository.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *ProdutoService) List(ctx context.Context, f repository.ProdutoFilter) ([]domain.Produto, error) {
	return s.repo.List(ctx, f)
}
