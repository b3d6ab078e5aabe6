package service

import (
	"context"

	"github.com/shopspring/decimal"

	"figureslab/internal/domain"
	"figureslab/internal/repository"
)

// MateriaPrimaService encapsula o CRUD de matérias-primas e o ajuste
// administrativo de estoque
type MateriaPrimaService struct {
	repo repository.MateriaPrimaRepository
}

func NewMateriaPrimaService(repo repository.MateriaPrimaRepository) *MateriaPrimaService {
	return &MateriaPrimaService{repo: repo}
}

func validarMateriaPrima(m domain.MateriaPrima) *ValidationError {
	campos := make(map[string]string)
	if m.Nome == "" {
		campos["nome"] = "O nome é obrigatório."
	}
	if m.Quantidade.IsNegative() {
		campos["quantidade"] = "A quantidade não pode ser negativa."
	}
	if m.UnidadeMedida == "" {
		campos["unidade_medida"] = "A unidade de medida é obrigatória."
	}
	if m.PrecoUnitario.IsNegative() {
		campos["preco_unitario"] = "O preço unitário não pode ser negativo."
	}
	if len(campos) > 0 {
		return &ValidationError{Campos: campos}
	}
	return nil
}

func (s *MateriaPrimaService) Create(ctx context.Context, m domain.MateriaPrima) (*domain.MateriaPrima, error) {
	if verr := validarMateriaPrima(m); verr != nil {
		return nil, verr
	}
	cp := m
	if err := s.repo.Create(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *MateriaPrimaService) GetByID(ctx context.Context, id int64) (*domain.MateriaPrima, error) {
	if id <= 0 {
		return nil, repository.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *MateriaPrimaService) Update(ctx context.Context, m domain.MateriaPrima) (*domain.MateriaPrima, error) {
	if verr := validarMateriaPrima(m); verr != nil {
		return nil, verr
	}
	cp := m
	if err := s.repo.Update(ctx, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *MateriaPrimaService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return repository.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *MateriaPrimaService) List(ctx context.Context) ([]domain.MateriaPrima, error) {
	return s.repo.List(ctx)
}

// AtualizarEstoque define a quantidade absoluta em estoque (ajuste
// administrativo; o consumo por pedido passa só pelo PedidoService)
func (s *MateriaPrimaService) AtualizarEstoque(ctx context.Context, id int64, quantidade decimal.Decimal) (*domain.MateriaPrima, error) {
	if quantidade.IsNegative() {
		return nil, &ValidationError{Campos: map[string]string{
			"quantidade": "A quantidade não pode ser negativa.",
		}}
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Quantidade = quantidade
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
