package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Cliente representa um cliente da loja
type Cliente struct {
	ID       int64  `json:"id" gorm:"primaryKey"`
	Nome     string `json:"nome" gorm:"size:255;not null"`
	Email    string `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Telefone string `json:"telefone" gorm:"size:20;not null"`
	Endereco string `json:"endereco" gorm:"size:255;not null"`
}

func (Cliente) TableName() string { return "clientes" }

// MateriaPrima é um insumo de produção com quantidade em estoque
type MateriaPrima struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	Nome          string          `json:"nome" gorm:"size:255;not null"`
	Quantidade    decimal.Decimal `json:"quantidade" gorm:"type:decimal(10,3);not null"`
	UnidadeMedida string          `json:"unidade_medida" gorm:"size:20;not null"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario" gorm:"type:decimal(10,2);not null"`
}

func (MateriaPrima) TableName() string { return "materia_primas" }

// Produto é um item vendável; a lista de matérias-primas forma a ficha
// técnica (quantidade necessária por unidade produzida)
type Produto struct {
	ID             int64                 `json:"id" gorm:"primaryKey"`
	Nome           string                `json:"nome" gorm:"size:255;not null"`
	Preco          decimal.Decimal       `json:"preco" gorm:"type:decimal(10,2);not null"`
	Estoque        int64                 `json:"estoque" gorm:"not null"`
	Foto           string                `json:"foto" gorm:"size:2048"`
	Descricao      *string               `json:"descricao,omitempty"`
	Fotos          []string              `json:"fotos,omitempty" gorm:"serializer:json"`
	MateriasPrimas []ProdutoMateriaPrima `json:"materias_primas" gorm:"foreignKey:ProdutoID"`
}

func (Produto) TableName() string { return "produtos" }

// ProdutoMateriaPrima é uma linha da ficha técnica do produto
type ProdutoMateriaPrima struct {
	ProdutoID      int64           `json:"-" gorm:"primaryKey"`
	MateriaPrimaID int64           `json:"materia_prima_id" gorm:"primaryKey"`
	Quantidade     decimal.Decimal `json:"quantidade" gorm:"type:decimal(10,3);not null"`
	MateriaPrima   *MateriaPrima   `json:"materia_prima,omitempty" gorm:"foreignKey:MateriaPrimaID"`
}

func (ProdutoMateriaPrima) TableName() string { return "produto_materia_prima" }

// StatusPedido é o estado do ciclo de vida de um pedido
type StatusPedido string

const (
	StatusPendente   StatusPedido = "pendente"
	StatusEmProducao StatusPedido = "em_producao"
	StatusConcluido  StatusPedido = "concluido"
)

// ParseStatus valida o valor recebido contra os três status legais.
// Não há restrição de ordem entre transições; qualquer status pode
// substituir qualquer outro.
func ParseStatus(s string) (StatusPedido, error) {
	switch StatusPedido(s) {
	case StatusPendente, StatusEmProducao, StatusConcluido:
		return StatusPedido(s), nil
	}
	return "", fmt.Errorf("status inválido: %q", s)
}

// Pedido é criado uma única vez pelo serviço de pedidos; depois disso
// apenas o status e a data de atualização mudam. Itens e preços
// capturados são imutáveis.
type Pedido struct {
	ID              int64        `json:"id" gorm:"primaryKey"`
	ClienteID       int64        `json:"cliente_id" gorm:"not null"`
	Cliente         *Cliente     `json:"cliente,omitempty" gorm:"foreignKey:ClienteID;constraint:OnDelete:CASCADE"`
	Vendedor        string       `json:"vendedor" gorm:"size:50;not null"`
	Status          StatusPedido `json:"status" gorm:"size:20;not null"`
	DocumentoFiscal *string      `json:"documento_fiscal,omitempty" gorm:"size:512"`
	Origem          *string      `json:"origem,omitempty" gorm:"size:255"`
	DataCriacao     time.Time    `json:"data_criacao"`
	DataAtualizacao time.Time    `json:"data_atualizacao"`
	Itens           []PedidoItem `json:"itens" gorm:"foreignKey:PedidoID"`
}

func (Pedido) TableName() string { return "pedidos" }

// Total soma quantidade × preço unitário capturado de cada item
func (p *Pedido) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range p.Itens {
		total = total.Add(it.PrecoUnitario.Mul(decimal.NewFromInt(it.Quantidade)))
	}
	return total
}

// PedidoItem guarda o preço unitário vigente no momento da criação do
// pedido
type PedidoItem struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	PedidoID      int64           `json:"-" gorm:"not null"`
	ProdutoID     int64           `json:"produto_id" gorm:"not null"`
	Produto       *Produto        `json:"produto,omitempty" gorm:"foreignKey:ProdutoID"`
	Quantidade    int64           `json:"quantidade" gorm:"not null"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario" gorm:"type:decimal(10,2);not null"`
}

func (PedidoItem) TableName() string { return "pedido_items" }
