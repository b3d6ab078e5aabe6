package domain

import "github.com/shopspring/decimal"

// ConsumoMateriaPrima é a quantidade de uma matéria-prima consumida ao
// produzir a quantidade pedida de um produto
type ConsumoMateriaPrima struct {
	MateriaPrimaID int64
	Nome           string
	Quantidade     decimal.Decimal
}

// ResolverConsumo expande a ficha técnica do produto para a quantidade
// pedida: cada linha vira quantidade-por-unidade × quantidade pedida.
// Produto sem ficha técnica (item de revenda) resulta em lista vazia.
func ResolverConsumo(p *Produto, quantidade int64) []ConsumoMateriaPrima {
	consumo := make([]ConsumoMateriaPrima, 0, len(p.MateriasPrimas))
	fator := decimal.NewFromInt(quantidade)
	for _, mp := range p.MateriasPrimas {
		nome := ""
		if mp.MateriaPrima != nil {
			nome = mp.MateriaPrima.Nome
		}
		consumo = append(consumo, ConsumoMateriaPrima{
			MateriaPrimaID: mp.MateriaPrimaID,
			Nome:           nome,
			Quantidade:     mp.Quantidade.Mul(fator),
		})
	}
	return consumo
}
