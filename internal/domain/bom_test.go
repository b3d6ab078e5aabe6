package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestResolverConsumo(t *testing.T) {
	resina := &MateriaPrima{ID: 1, Nome: "Resina", UnidadeMedida: "kg"}
	tinta := &MateriaPrima{ID: 2, Nome: "Tinta", UnidadeMedida: "ml"}
	p := &Produto{
		ID:   10,
		Nome: "Miniatura A",
		MateriasPrimas: []ProdutoMateriaPrima{
			{ProdutoID: 10, MateriaPrimaID: 1, Quantidade: dec("0.2"), MateriaPrima: resina},
			{ProdutoID: 10, MateriaPrimaID: 2, Quantidade: dec("15"), MateriaPrima: tinta},
		},
	}

	consumo := ResolverConsumo(p, 3)
	if len(consumo) != 2 {
		t.Fatalf("esperava 2 itens, veio %d", len(consumo))
	}
	if !consumo[0].Quantidade.Equal(dec("0.6")) {
		t.Fatalf("resina: esperava 0.6, veio %s", consumo[0].Quantidade)
	}
	if consumo[0].Nome != "Resina" {
		t.Fatalf("nome: %q", consumo[0].Nome)
	}
	if !consumo[1].Quantidade.Equal(dec("45")) {
		t.Fatalf("tinta: esperava 45, veio %s", consumo[1].Quantidade)
	}
}

func TestResolverConsumo_FichaVazia(t *testing.T) {
	p := &Produto{ID: 1, Nome: "Revenda"}
	consumo := ResolverConsumo(p, 5)
	if len(consumo) != 0 {
		t.Fatalf("ficha vazia deveria resultar em lista vazia, veio %d", len(consumo))
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pendente", "em_producao", "concluido"} {
		if _, err := ParseStatus(s); err != nil {
			t.Fatalf("status %q deveria ser válido: %v", s, err)
		}
	}
	if _, err := ParseStatus("cancelado"); err == nil {
		t.Fatalf("esperava erro para status desconhecido")
	}
}

func TestPedidoTotal(t *testing.T) {
	p := &Pedido{Itens: []PedidoItem{
		{Quantidade: 3, PrecoUnitario: dec("10.50")},
		{Quantidade: 1, PrecoUnitario: dec("99.90")},
	}}
	if !p.Total().Equal(dec("131.40")) {
		t.Fatalf("total: esperava 131.40, veio %s", p.Total())
	}
}
