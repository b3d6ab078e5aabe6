package service

import (
	"context"
	"errors"

	"figureslab/internal/domain"
	"figureslab/internal/repository"
)

// ClienteService encapsula o CRUD de clientes
type ClienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) *ClienteService {
	return &ClienteService{repo: repo}
}

func (s *ClienteService) Create(ctx context.Context, c domain.Cliente) (*domain.Cliente, error) {
	cp := c
	if err := s.repo.Create(ctx, &cp); err != nil {
		if errors.Is(err, repository.ErrEmailDuplicado) {
			return nil, &ValidationError{Campos: map[string]string{
				"email": "O email informado já está em uso.",
			}}
		}
		return nil, err
	}
	return &cp, nil
}

func (s *ClienteService) GetByID(ctx context.Context, id int64) (*domain.Cliente, error) {
	if id <= 0 {
		return nil, repository.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ClienteService) Update(ctx context.Context, c domain.Cliente) (*domain.Cliente, error) {
	cp := c
	if err := s.repo.Update(ctx, &cp); err != nil {
		if errors.Is(err, repository.ErrEmailDuplicado) {
			return nil, &ValidationError{Campos: map[string]string{
				"email": "O email informado já está em uso.",
			}}
		}
		return nil, err
	}
	return &cp, nil
}

// Delete remove o cliente e, por política do schema, os pedidos dele
func (s *ClienteService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return repository.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *ClienteService) List(ctx context.Context) ([]domain.Cliente, error) {
	return s.repo.List(ctx)
}
