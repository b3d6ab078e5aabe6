package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"figureslab/internal/domain"
)

func pedidoDe(t *testing.T, vendedor string, qtd int64, preco string) *domain.Pedido {
	t.Helper()
	return &domain.Pedido{
		Vendedor: vendedor,
		Itens:    []domain.PedidoItem{{Quantidade: qtd, PrecoUnitario: dec(t, preco)}},
	}
}

func TestCalcularLucroPedido_Vendedor1(t *testing.T) {
	// venda 2 × 120 = 240, custo 40 → lucro 200, meio a meio
	calc := CalcularLucroPedido(pedidoDe(t, "vendedor1", 2, "120"), dec(t, "40"))
	assert.True(t, calc.LucroTotal.Equal(dec(t, "200")), "lucro: %s", calc.LucroTotal)
	assert.True(t, calc.Vendedor1.Equal(dec(t, "100")))
	assert.True(t, calc.Vendedor2.Equal(dec(t, "100")))
}

func TestCalcularLucroPedido_Vendedor2(t *testing.T) {
	// lucro 100 → 35 para vendedor1, 65 para vendedor2
	calc := CalcularLucroPedido(pedidoDe(t, "vendedor2", 1, "150"), dec(t, "50"))
	assert.True(t, calc.LucroTotal.Equal(dec(t, "100")))
	assert.True(t, calc.Vendedor1.Equal(dec(t, "35")))
	assert.True(t, calc.Vendedor2.Equal(dec(t, "65")))
}

func TestCalcularLucroPedido_VendedorForaDaTabela(t *testing.T) {
	calc := CalcularLucroPedido(pedidoDe(t, "balcao", 1, "80"), dec(t, "0"))
	assert.True(t, calc.Vendedor1.Equal(dec(t, "40")), "divisão padrão é meio a meio")
	assert.True(t, calc.Vendedor2.Equal(dec(t, "40")))
}

func TestRelatorioLucros_AgregaPorVendedor(t *testing.T) {
	ctx := context.Background()
	a := setup(t)
	cliente, _, produto := a.semear(t, 10, "100")

	// custo por unidade: 0.2 kg × R$80 = R$16
	_, err := a.pedidos.CreatePedido(ctx, CriarPedidoRequest{
		ClienteID: cliente.ID,
		Vendedor:  "vendedor1",
		Itens:     []ItemPedidoRequest{{ProdutoID: produto.ID, Quantidade: 2}},
	})
	require.NoError(t, err)
	_, err = a.pedidos.CreatePedido(ctx, CriarPedidoRequest{
		ClienteID: cliente.ID,
		Vendedor:  "vendedor2",
		Itens:     []ItemPedidoRequest{{ProdutoID: produto.ID, Quantidade: 1}},
	})
	require.NoError(t, err)

	rel, err := NewRelatorioService(a.pedidosRep, a.store).Lucros(ctx)
	require.NoError(t, err)

	// pedido 1: venda 240, custo 32, lucro 208 (104/104)
	// pedido 2: venda 120, custo 16, lucro 104 (36.4/67.6)
	assert.EqualValues(t, 1, rel.Vendedor1.TotalVendas)
	assert.EqualValues(t, 1, rel.Vendedor2.TotalVendas)
	assert.True(t, rel.Vendedor1.LucroTotal.Equal(dec(t, "208")), "v1 lucro: %s", rel.Vendedor1.LucroTotal)
	assert.True(t, rel.Vendedor2.LucroTotal.Equal(dec(t, "104")), "v2 lucro: %s", rel.Vendedor2.LucroTotal)
	assert.True(t, rel.Vendedor1.ParticipacaoLucro.Equal(dec(t, "140.4")), "v1 participação: %s", rel.Vendedor1.ParticipacaoLucro)
	assert.True(t, rel.Vendedor2.ParticipacaoLucro.Equal(dec(t, "171.6")), "v2 participação: %s", rel.Vendedor2.ParticipacaoLucro)
}
