package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"figureslab/internal/domain"
	"figureslab/internal/repository"
)

// participacaoLucro define como o lucro de cada pedido é dividido entre
// os dois vendedores, conforme quem fez a venda
var participacaoLucro = map[string]map[string]decimal.Decimal{
	"vendedor1": {
		"vendedor1": decimal.NewFromFloat(0.5),
		"vendedor2": decimal.NewFromFloat(0.5),
	},
	"vendedor2": {
		"vendedor1": decimal.NewFromFloat(0.35),
		"vendedor2": decimal.NewFromFloat(0.65),
	},
}

// LucroPedido é o resultado do cálculo de um pedido
type LucroPedido struct {
	TotalVenda decimal.Decimal `json:"total_venda"`
	Custo      decimal.Decimal `json:"custo"`
	LucroTotal decimal.Decimal `json:"lucro_total"`
	Vendedor1  decimal.Decimal `json:"vendedor1"`
	Vendedor2  decimal.Decimal `json:"vendedor2"`
}

// TotaisVendedor acumula as vendas e a participação de um vendedor
type TotaisVendedor struct {
	TotalVendas       int64           `json:"total_vendas"`
	LucroTotal        decimal.Decimal `json:"lucro_total"`
	ParticipacaoLucro decimal.Decimal `json:"participacao_lucro"`
}

// RelatorioLucros é a visão agregada por vendedor
type RelatorioLucros struct {
	Vendedor1 TotaisVendedor `json:"vendedor1"`
	Vendedor2 TotaisVendedor `json:"vendedor2"`
}

// CalcularLucroPedido aplica a regra de divisão ao lucro do pedido
// (total de venda com preços capturados, menos o custo informado).
// Vendedor fora da tabela cai na divisão padrão meio a meio.
func CalcularLucroPedido(pedido *domain.Pedido, custo decimal.Decimal) LucroPedido {
	lucro := pedido.Total().Sub(custo)
	divisao, ok := participacaoLucro[pedido.Vendedor]
	if !ok {
		metade := decimal.NewFromFloat(0.5)
		return LucroPedido{
			TotalVenda: pedido.Total(),
			Custo:      custo,
			LucroTotal: lucro,
			Vendedor1:  lucro.Mul(metade),
			Vendedor2:  lucro.Mul(metade),
		}
	}
	return LucroPedido{
		TotalVenda: pedido.Total(),
		Custo:      custo,
		LucroTotal: lucro,
		Vendedor1:  lucro.Mul(divisao["vendedor1"]),
		Vendedor2:  lucro.Mul(divisao["vendedor2"]),
	}
}

// RelatorioService calcula o relatório de lucros sobre os pedidos
// existentes; o custo de cada pedido é derivado da ficha técnica e dos
// preços unitários atuais das matérias-primas
type RelatorioService struct {
	pedidos  repository.PedidoRepository
	produtos repository.ProdutoRepository
}

func NewRelatorioService(pedidos repository.PedidoRepository, produtos repository.ProdutoRepository) *RelatorioService {
	return &RelatorioService{pedidos: pedidos, produtos: produtos}
}

// custoPedido soma, para cada item, o custo de matéria-prima por unidade
// vezes a quantidade pedida. Produto removido depois do pedido conta
// custo zero.
func (s *RelatorioService) custoPedido(ctx context.Context, p *domain.Pedido) (decimal.Decimal, error) {
	custo := decimal.Zero
	for _, it := range p.Itens {
		produto, err := s.produtos.GetByID(ctx, it.ProdutoID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return decimal.Zero, err
		}
		unitario := decimal.Zero
		for _, mp := range produto.MateriasPrimas {
			if mp.MateriaPrima == nil {
				continue
			}
			unitario = unitario.Add(mp.Quantidade.Mul(mp.MateriaPrima.PrecoUnitario))
		}
		custo = custo.Add(unitario.Mul(decimal.NewFromInt(it.Quantidade)))
	}
	return custo, nil
}

// Lucros agrega todos os pedidos por vendedor. A contagem de vendas segue
// a regra do sistema anterior: tudo que não for vendedor2 conta para
// vendedor1.
func (s *RelatorioService) Lucros(ctx context.Context) (*RelatorioLucros, error) {
	pedidos, err := s.pedidos.List(ctx)
	if err != nil {
		return nil, err
	}

	var rel RelatorioLucros
	rel.Vendedor1.LucroTotal = decimal.Zero
	rel.Vendedor1.ParticipacaoLucro = decimal.Zero
	rel.Vendedor2.LucroTotal = decimal.Zero
	rel.Vendedor2.ParticipacaoLucro = decimal.Zero

	for i := range pedidos {
		p := &pedidos[i]
		custo, err := s.custoPedido(ctx, p)
		if err != nil {
			return nil, err
		}
		calc := CalcularLucroPedido(p, custo)

		if p.Vendedor == "vendedor2" {
			rel.Vendedor2.TotalVendas++
			rel.Vendedor2.LucroTotal = rel.Vendedor2.LucroTotal.Add(calc.LucroTotal)
		} else {
			rel.Vendedor1.TotalVendas++
			rel.Vendedor1.LucroTotal = rel.Vendedor1.LucroTotal.Add(calc.LucroTotal)
		}
		rel.Vendedor1.ParticipacaoLucro = rel.Vendedor1.ParticipacaoLucro.Add(calc.Vendedor1)
		rel.Vendedor2.ParticipacaoLucro = rel.Vendedor2.ParticipacaoLucro.Add(calc.Vendedor2)
	}
	return &rel, nil
}
