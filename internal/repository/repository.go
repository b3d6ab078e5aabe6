package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"figureslab/internal/domain"
)

// ErrNotFound é retornado quando a entidade não existe
var ErrNotFound = errors.New("not found")

// ErrEstoqueInsuficiente é retornado por um decremento que deixaria o
// estoque negativo; nada é alterado nesse caso
var ErrEstoqueInsuficiente = errors.New("estoque insuficiente")

// ErrEmailDuplicado é retornado ao criar/atualizar cliente com email já usado
var ErrEmailDuplicado = errors.New("email já cadastrado")

// ProdutoFilter parâmetros de filtragem da listagem de produtos
type ProdutoFilter struct {
	NomeContem string
	PrecoMin   *decimal.Decimal
	PrecoMax   *decimal.Decimal
}

// ClienteRepository interface do repositório de clientes.
// Delete remove também os pedidos do cliente (cascata herdada do schema).
type ClienteRepository interface {
	Create(ctx context.Context, c *domain.Cliente) error
	GetByID(ctx context.Context, id int64) (*domain.Cliente, error)
	Update(ctx context.Context, c *domain.Cliente) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Cliente, error)
}

// MateriaPrimaRepository interface do repositório de matérias-primas
type MateriaPrimaRepository interface {
	Create(ctx context.Context, m *domain.MateriaPrima) error
	GetByID(ctx context.Context, id int64) (*domain.MateriaPrima, error)
	Update(ctx context.Context, m *domain.MateriaPrima) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.MateriaPrima, error)
	// DecrementQuantidade subtrai qtd do estoque em uma única escrita
	// atômica; falha com ErrEstoqueInsuficiente sem alterar nada se o
	// saldo for menor que qtd.
	DecrementQuantidade(ctx context.Context, id int64, qtd decimal.Decimal) error
}

// ProdutoRepository interface do repositório de produtos; a ficha técnica
// é criada e substituída junto com o produto
type ProdutoRepository interface {
	Create(ctx context.Context, p *domain.Produto) error
	GetByID(ctx context.Context, id int64) (*domain.Produto, error)
	Update(ctx context.Context, p *domain.Produto) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ProdutoFilter) ([]domain.Produto, error)
	// DecrementEstoque segue a mesma disciplina de DecrementQuantidade
	DecrementEstoque(ctx context.Context, id int64, qtd int64) error
}

// PedidoRepository interface do repositório de pedidos; Create persiste o
// cabeçalho e todos os itens como uma única escrita
type PedidoRepository interface {
	Create(ctx context.Context, p *domain.Pedido) error
	GetByID(ctx context.Context, id int64) (*domain.Pedido, error)
	Update(ctx context.Context, p *domain.Pedido) error
	List(ctx context.Context) ([]domain.Pedido, error)
}

// TxManager delimita uma unidade de trabalho: tudo dentro de fn é
// efetivado junto ou desfeito junto. Para o in-memory é um lock global de
// escrita com snapshot; para o MySQL é uma transação de banco.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
