package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"figureslab/internal/domain"
)

// InitDB abre a conexão MySQL e roda as migrações dos agregados
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no banco: %w", err)
	}
	if err := db.AutoMigrate(
		&domain.Cliente{},
		&domain.MateriaPrima{},
		&domain.Produto{},
		&domain.ProdutoMateriaPrima{},
		&domain.Pedido{},
		&domain.PedidoItem{},
	); err != nil {
		return nil, fmt.Errorf("falha ao migrar schema: %w", err)
	}
	return db, nil
}

func nowUTC() time.Time { return time.Now().UTC() }

// gormTxKey carrega o *gorm.DB transacional pelo contexto, no mesmo
// espírito do marcador de contexto do MemoryTx
type gormTxKey struct{}

func dbFrom(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(gormTxKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// GormTx delimita a unidade de trabalho com uma transação de banco; o
// rollback do MySQL desfaz decrementos de estoque e inserções parciais
type GormTx struct{ db *gorm.DB }

func NewGormTx(db *gorm.DB) *GormTx { return &GormTx{db: db} }

func (t *GormTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, gormTxKey{}, tx))
	})
}

// GormClientes implementa ClienteRepository sobre MySQL
type GormClientes struct{ db *gorm.DB }

func NewGormClientes(db *gorm.DB) *GormClientes { return &GormClientes{db: db} }

var _ ClienteRepository = (*GormClientes)(nil)

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "Duplicate entry")
}

func (r *GormClientes) Create(ctx context.Context, c *domain.Cliente) error {
	if err := dbFrom(ctx, r.db).Create(c).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrEmailDuplicado
		}
		return err
	}
	return nil
}

func (r *GormClientes) GetByID(ctx context.Context, id int64) (*domain.Cliente, error) {
	var c domain.Cliente
	if err := dbFrom(ctx, r.db).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormClientes) Update(ctx context.Context, c *domain.Cliente) error {
	res := dbFrom(ctx, r.db).Model(&domain.Cliente{}).Where("id = ?", c.ID).Updates(map[string]any{
		"nome": c.Nome, "email": c.Email, "telefone": c.Telefone, "endereco": c.Endereco,
	})
	if res.Error != nil {
		if isDuplicateKey(res.Error) {
			return ErrEmailDuplicado
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete remove apenas o cliente; os pedidos caem pela FK com cascade
func (r *GormClientes) Delete(ctx context.Context, id int64) error {
	res := dbFrom(ctx, r.db).Delete(&domain.Cliente{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormClientes) List(ctx context.Context) ([]domain.Cliente, error) {
	var out []domain.Cliente
	if err := dbFrom(ctx, r.db).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GormMateriasPrimas implementa MateriaPrimaRepository sobre MySQL
type GormMateriasPrimas struct{ db *gorm.DB }

func NewGormMateriasPrimas(db *gorm.DB) *GormMateriasPrimas { return &GormMateriasPrimas{db: db} }

var _ MateriaPrimaRepository = (*GormMateriasPrimas)(nil)

func (r *GormMateriasPrimas) Create(ctx context.Context, m *domain.MateriaPrima) error {
	return dbFrom(ctx, r.db).Create(m).Error
}

func (r *GormMateriasPrimas) GetByID(ctx context.Context, id int64) (*domain.MateriaPrima, error) {
	var m domain.MateriaPrima
	if err := dbFrom(ctx, r.db).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *GormMateriasPrimas) Update(ctx context.Context, m *domain.MateriaPrima) error {
	res := dbFrom(ctx, r.db).Model(&domain.MateriaPrima{}).Where("id = ?", m.ID).Updates(map[string]any{
		"nome":           m.Nome,
		"quantidade":     m.Quantidade,
		"unidade_medida": m.UnidadeMedida,
		"preco_unitario": m.PrecoUnitario,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormMateriasPrimas) Delete(ctx context.Context, id int64) error {
	res := dbFrom(ctx, r.db).Delete(&domain.MateriaPrima{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormMateriasPrimas) List(ctx context.Context) ([]domain.MateriaPrima, error) {
	var out []domain.MateriaPrima
	if err := dbFrom(ctx, r.db).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DecrementQuantidade usa UPDATE condicional: a subtração só acontece se o
// saldo comportar, independentemente de intercalação com outras transações
func (r *GormMateriasPrimas) DecrementQuantidade(ctx context.Context, id int64, qtd decimal.Decimal) error {
	db := dbFrom(ctx, r.db)
	res := db.Model(&domain.MateriaPrima{}).
		Where("id = ? AND quantidade >= ?", id, qtd).
		UpdateColumn("quantidade", gorm.Expr("quantidade - ?", qtd))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := db.Model(&domain.MateriaPrima{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrEstoqueInsuficiente
	}
	return nil
}

// GormProdutos implementa ProdutoRepository sobre MySQL
type GormProdutos struct{ db *gorm.DB }

func NewGormProdutos(db *gorm.DB) *GormProdutos { return &GormProdutos{db: db} }

var _ ProdutoRepository = (*GormProdutos)(nil)

func (r *GormProdutos) Create(ctx context.Context, p *domain.Produto) error {
	return dbFrom(ctx, r.db).Create(p).Error
}

func (r *GormProdutos) GetByID(ctx context.Context, id int64) (*domain.Produto, error) {
	var p domain.Produto
	err := dbFrom(ctx, r.db).Preload("MateriasPrimas.MateriaPrima").First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Update substitui os campos do produto e a ficha técnica inteira
// (detach + attach, como no fluxo original)
func (r *GormProdutos) Update(ctx context.Context, p *domain.Produto) error {
	db := dbFrom(ctx, r.db)
	res := db.Model(&domain.Produto{}).Where("id = ?", p.ID).Updates(map[string]any{
		"nome":      p.Nome,
		"preco":     p.Preco,
		"estoque":   p.Estoque,
		"foto":      p.Foto,
		"descricao": p.Descricao,
		"fotos":     p.Fotos,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	if err := db.Where("produto_id = ?", p.ID).Delete(&domain.ProdutoMateriaPrima{}).Error; err != nil {
		return err
	}
	for i := range p.MateriasPrimas {
		p.MateriasPrimas[i].ProdutoID = p.ID
	}
	if len(p.MateriasPrimas) > 0 {
		if err := db.Create(&p.MateriasPrimas).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormProdutos) Delete(ctx context.Context, id int64) error {
	db := dbFrom(ctx, r.db)
	if err := db.Where("produto_id = ?", id).Delete(&domain.ProdutoMateriaPrima{}).Error; err != nil {
		return err
	}
	res := db.Delete(&domain.Produto{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormProdutos) List(ctx context.Context, f ProdutoFilter) ([]domain.Produto, error) {
	db := dbFrom(ctx, r.db).Preload("MateriasPrimas.MateriaPrima")
	if f.NomeContem != "" {
		db = db.Where("nome LIKE ?", "%"+f.NomeContem+"%")
	}
	if f.PrecoMin != nil {
		db = db.Where("preco >= ?", *f.PrecoMin)
	}
	if f.PrecoMax != nil {
		db = db.Where("preco <= ?", *f.PrecoMax)
	}
	var out []domain.Produto
	if err := db.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormProdutos) DecrementEstoque(ctx context.Context, id int64, qtd int64) error {
	db := dbFrom(ctx, r.db)
	res := db.Model(&domain.Produto{}).
		Where("id = ? AND estoque >= ?", id, qtd).
		UpdateColumn("estoque", gorm.Expr("estoque - ?", qtd))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := db.Model(&domain.Produto{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrEstoqueInsuficiente
	}
	return nil
}

// GormPedidos implementa PedidoRepository sobre MySQL
type GormPedidos struct{ db *gorm.DB }

func NewGormPedidos(db *gorm.DB) *GormPedidos { return &GormPedidos{db: db} }

var _ PedidoRepository = (*GormPedidos)(nil)

// Create persiste o cabeçalho e os itens em um único Create; dentro de
// GormTx tudo participa da mesma transação
func (r *GormPedidos) Create(ctx context.Context, p *domain.Pedido) error {
	now := nowUTC()
	p.DataCriacao = now
	p.DataAtualizacao = now
	return dbFrom(ctx, r.db).Omit("Cliente").Create(p).Error
}

func (r *GormPedidos) GetByID(ctx context.Context, id int64) (*domain.Pedido, error) {
	var p domain.Pedido
	err := dbFrom(ctx, r.db).
		Preload("Cliente").
		Preload("Itens.Produto").
		First(&p, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormPedidos) Update(ctx context.Context, p *domain.Pedido) error {
	p.DataAtualizacao = nowUTC()
	res := dbFrom(ctx, r.db).Model(&domain.Pedido{}).Where("id = ?", p.ID).Updates(map[string]any{
		"vendedor":         p.Vendedor,
		"status":           p.Status,
		"documento_fiscal": p.DocumentoFiscal,
		"origem":           p.Origem,
		"data_atualizacao": p.DataAtualizacao,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormPedidos) List(ctx context.Context) ([]domain.Pedido, error) {
	var out []domain.Pedido
	err := dbFrom(ctx, r.db).
		Preload("Cliente").
		Preload("Itens.Produto").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
