package repository

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"figureslab/internal/domain"
)

// MemoryStore hospeda todos os agregados em memória com um gerador de ID
// simples. Usado nos testes e como backend padrão quando não há banco
// configurado.
type MemoryStore struct {
	mu            sync.RWMutex
	nextClienteID int64
	nextMateriaID int64
	nextProdutoID int64
	nextPedidoID  int64
	nextItemID    int64
	clientesByID  map[int64]domain.Cliente
	materiasByID  map[int64]domain.MateriaPrima
	produtosByID  map[int64]domain.Produto
	pedidosByID   map[int64]domain.Pedido
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextClienteID: 1,
		nextMateriaID: 1,
		nextProdutoID: 1,
		nextPedidoID:  1,
		nextItemID:    1,
		clientesByID:  make(map[int64]domain.Cliente),
		materiasByID:  make(map[int64]domain.MateriaPrima),
		produtosByID:  make(map[int64]domain.Produto),
		pedidosByID:   make(map[int64]domain.Pedido),
	}
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

// deep copies: os valores guardados nos mapas contêm slices

func cloneProduto(p domain.Produto) domain.Produto {
	cp := p
	if p.Fotos != nil {
		cp.Fotos = append([]string(nil), p.Fotos...)
	}
	cp.MateriasPrimas = make([]domain.ProdutoMateriaPrima, len(p.MateriasPrimas))
	for i, mp := range p.MateriasPrimas {
		cp.MateriasPrimas[i] = mp
		if mp.MateriaPrima != nil {
			mat := *mp.MateriaPrima
			cp.MateriasPrimas[i].MateriaPrima = &mat
		}
	}
	return cp
}

func clonePedido(p domain.Pedido) domain.Pedido {
	cp := p
	cp.Cliente = nil
	cp.Itens = make([]domain.PedidoItem, len(p.Itens))
	for i, it := range p.Itens {
		cp.Itens[i] = it
		cp.Itens[i].Produto = nil
	}
	return cp
}

// Ensure interfaces
var _ ProdutoRepository = (*MemoryStore)(nil)

// ProdutoRepository implementation. A ficha técnica é guardada junto com
// o produto; a matéria-prima expandida é anexada na leitura.
func (m *MemoryStore) Create(ctx context.Context, p *domain.Produto) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	p.ID = m.nextProdutoID
	m.nextProdutoID++
	for i := range p.MateriasPrimas {
		p.MateriasPrimas[i].ProdutoID = p.ID
		p.MateriasPrimas[i].MateriaPrima = nil
	}
	m.produtosByID[p.ID] = cloneProduto(*p)
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id int64) (*domain.Produto, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	p, ok := m.produtosByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneProduto(p)
	for i := range cp.MateriasPrimas {
		if mat, ok := m.materiasByID[cp.MateriasPrimas[i].MateriaPrimaID]; ok {
			matCp := mat
			cp.MateriasPrimas[i].MateriaPrima = &matCp
		}
	}
	return &cp, nil
}

func (m *MemoryStore) Update(ctx context.Context, p *domain.Produto) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.produtosByID[p.ID]; !ok {
		return ErrNotFound
	}
	for i := range p.MateriasPrimas {
		p.MateriasPrimas[i].ProdutoID = p.ID
		p.MateriasPrimas[i].MateriaPrima = nil
	}
	m.produtosByID[p.ID] = cloneProduto(*p)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id int64) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.produtosByID[id]; !ok {
		return ErrNotFound
	}
	delete(m.produtosByID, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, f ProdutoFilter) ([]domain.Produto, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.Produto, 0)
	for _, p := range m.produtosByID {
		if !containsIgnoreCase(p.Nome, f.NomeContem) {
			continue
		}
		if f.PrecoMin != nil && p.Preco.LessThan(*f.PrecoMin) {
			continue
		}
		if f.PrecoMax != nil && p.Preco.GreaterThan(*f.PrecoMax) {
			continue
		}
		cp := cloneProduto(p)
		for i := range cp.MateriasPrimas {
			if mat, ok := m.materiasByID[cp.MateriasPrimas[i].MateriaPrimaID]; ok {
				matCp := mat
				cp.MateriasPrimas[i].MateriaPrima = &matCp
			}
		}
		out = append(out, cp)
	}
	return out, nil
}

func (m *MemoryStore) DecrementEstoque(ctx context.Context, id int64, qtd int64) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	p, ok := m.produtosByID[id]
	if !ok {
		return ErrNotFound
	}
	if p.Estoque < qtd {
		return ErrEstoqueInsuficiente
	}
	p.Estoque -= qtd
	m.produtosByID[id] = p
	return nil
}

// ClienteRepository implementation on wrapper type
type MemoryClientes struct{ store *MemoryStore }

func NewMemoryClientes(store *MemoryStore) *MemoryClientes { return &MemoryClientes{store: store} }

var _ ClienteRepository = (*MemoryClientes)(nil)

func (mc *MemoryClientes) emailEmUso(email string, ignorarID int64) bool {
	for _, c := range mc.store.clientesByID {
		if c.Email == email && c.ID != ignorarID {
			return true
		}
	}
	return false
}

func (mc *MemoryClientes) Create(ctx context.Context, c *domain.Cliente) error {
	mc.store.wlock(ctx)
	defer mc.store.wunlock(ctx)
	if mc.emailEmUso(c.Email, 0) {
		return ErrEmailDuplicado
	}
	c.ID = mc.store.nextClienteID
	mc.store.nextClienteID++
	mc.store.clientesByID[c.ID] = *c
	return nil
}

func (mc *MemoryClientes) GetByID(ctx context.Context, id int64) (*domain.Cliente, error) {
	mc.store.rlock(ctx)
	defer mc.store.runlock(ctx)
	c, ok := mc.store.clientesByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := c
	return &cp, nil
}

func (mc *MemoryClientes) Update(ctx context.Context, c *domain.Cliente) error {
	mc.store.wlock(ctx)
	defer mc.store.wunlock(ctx)
	if _, ok := mc.store.clientesByID[c.ID]; !ok {
		return ErrNotFound
	}
	if mc.emailEmUso(c.Email, c.ID) {
		return ErrEmailDuplicado
	}
	mc.store.clientesByID[c.ID] = *c
	return nil
}

// Delete remove o cliente e, em cascata, os pedidos dele (política do
// schema original: FK com onDelete cascade)
func (mc *MemoryClientes) Delete(ctx context.Context, id int64) error {
	mc.store.wlock(ctx)
	defer mc.store.wunlock(ctx)
	if _, ok := mc.store.clientesByID[id]; !ok {
		return ErrNotFound
	}
	delete(mc.store.clientesByID, id)
	for pid, p := range mc.store.pedidosByID {
		if p.ClienteID == id {
			delete(mc.store.pedidosByID, pid)
		}
	}
	return nil
}

func (mc *MemoryClientes) List(ctx context.Context) ([]domain.Cliente, error) {
	mc.store.rlock(ctx)
	defer mc.store.runlock(ctx)
	out := make([]domain.Cliente, 0, len(mc.store.clientesByID))
	for _, c := range mc.store.clientesByID {
		out = append(out, c)
	}
	return out, nil
}

// MateriaPrimaRepository implementation on wrapper type
type MemoryMateriasPrimas struct{ store *MemoryStore }

func NewMemoryMateriasPrimas(store *MemoryStore) *MemoryMateriasPrimas {
	return &MemoryMateriasPrimas{store: store}
}

var _ MateriaPrimaRepository = (*MemoryMateriasPrimas)(nil)

func (mm *MemoryMateriasPrimas) Create(ctx context.Context, m *domain.MateriaPrima) error {
	mm.store.wlock(ctx)
	defer mm.store.wunlock(ctx)
	m.ID = mm.store.nextMateriaID
	mm.store.nextMateriaID++
	mm.store.materiasByID[m.ID] = *m
	return nil
}

func (mm *MemoryMateriasPrimas) GetByID(ctx context.Context, id int64) (*domain.MateriaPrima, error) {
	mm.store.rlock(ctx)
	defer mm.store.runlock(ctx)
	m, ok := mm.store.materiasByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := m
	return &cp, nil
}

func (mm *MemoryMateriasPrimas) Update(ctx context.Context, m *domain.MateriaPrima) error {
	mm.store.wlock(ctx)
	defer mm.store.wunlock(ctx)
	if _, ok := mm.store.materiasByID[m.ID]; !ok {
		return ErrNotFound
	}
	mm.store.materiasByID[m.ID] = *m
	return nil
}

func (mm *MemoryMateriasPrimas) Delete(ctx context.Context, id int64) error {
	mm.store.wlock(ctx)
	defer mm.store.wunlock(ctx)
	if _, ok := mm.store.materiasByID[id]; !ok {
		return ErrNotFound
	}
	delete(mm.store.materiasByID, id)
	return nil
}

func (mm *MemoryMateriasPrimas) List(ctx context.Context) ([]domain.MateriaPrima, error) {
	mm.store.rlock(ctx)
	defer mm.store.runlock(ctx)
	out := make([]domain.MateriaPrima, 0, len(mm.store.materiasByID))
	for _, m := range mm.store.materiasByID {
		out = append(out, m)
	}
	return out, nil
}

func (mm *MemoryMateriasPrimas) DecrementQuantidade(ctx context.Context, id int64, qtd decimal.Decimal) error {
	mm.store.wlock(ctx)
	defer mm.store.wunlock(ctx)
	m, ok := mm.store.materiasByID[id]
	if !ok {
		return ErrNotFound
	}
	if m.Quantidade.LessThan(qtd) {
		return ErrEstoqueInsuficiente
	}
	m.Quantidade = m.Quantidade.Sub(qtd)
	mm.store.materiasByID[id] = m
	return nil
}

// PedidoRepository implementation on wrapper type
type MemoryPedidos struct{ store *MemoryStore }

func NewMemoryPedidos(store *MemoryStore) *MemoryPedidos { return &MemoryPedidos{store: store} }

var _ PedidoRepository = (*MemoryPedidos)(nil)

func (mp *MemoryPedidos) Create(ctx context.Context, p *domain.Pedido) error {
	mp.store.wlock(ctx)
	defer mp.store.wunlock(ctx)
	p.ID = mp.store.nextPedidoID
	mp.store.nextPedidoID++
	for i := range p.Itens {
		p.Itens[i].ID = mp.store.nextItemID
		mp.store.nextItemID++
		p.Itens[i].PedidoID = p.ID
	}
	p.DataCriacao = time.Now().UTC()
	p.DataAtualizacao = p.DataCriacao
	mp.store.pedidosByID[p.ID] = clonePedido(*p)
	return nil
}

// GetByID devolve o pedido expandido com cliente e produto de cada item
func (mp *MemoryPedidos) GetByID(ctx context.Context, id int64) (*domain.Pedido, error) {
	mp.store.rlock(ctx)
	defer mp.store.runlock(ctx)
	p, ok := mp.store.pedidosByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := mp.expandir(p)
	return &cp, nil
}

func (mp *MemoryPedidos) expandir(p domain.Pedido) domain.Pedido {
	cp := clonePedido(p)
	if c, ok := mp.store.clientesByID[p.ClienteID]; ok {
		cli := c
		cp.Cliente = &cli
	}
	for i := range cp.Itens {
		if prod, ok := mp.store.produtosByID[cp.Itens[i].ProdutoID]; ok {
			prodCp := cloneProduto(prod)
			cp.Itens[i].Produto = &prodCp
		}
	}
	return cp
}

func (mp *MemoryPedidos) Update(ctx context.Context, p *domain.Pedido) error {
	mp.store.wlock(ctx)
	defer mp.store.wunlock(ctx)
	if _, ok := mp.store.pedidosByID[p.ID]; !ok {
		return ErrNotFound
	}
	p.DataAtualizacao = time.Now().UTC()
	mp.store.pedidosByID[p.ID] = clonePedido(*p)
	return nil
}

func (mp *MemoryPedidos) List(ctx context.Context) ([]domain.Pedido, error) {
	mp.store.rlock(ctx)
	defer mp.store.runlock(ctx)
	out := make([]domain.Pedido, 0, len(mp.store.pedidosByID))
	for _, p := range mp.store.pedidosByID {
		out = append(out, mp.expandir(p))
	}
	return out, nil
}

// MemoryTx serializa unidades de trabalho com o lock global de escrita e
// tira um snapshot do estado no início; em caso de erro o snapshot é
// restaurado, desfazendo todas as escritas feitas dentro de fn.
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

type memorySnapshot struct {
	nextClienteID int64
	nextMateriaID int64
	nextProdutoID int64
	nextPedidoID  int64
	nextItemID    int64
	clientesByID  map[int64]domain.Cliente
	materiasByID  map[int64]domain.MateriaPrima
	produtosByID  map[int64]domain.Produto
	pedidosByID   map[int64]domain.Pedido
}

func (m *MemoryStore) snapshot() memorySnapshot {
	s := memorySnapshot{
		nextClienteID: m.nextClienteID,
		nextMateriaID: m.nextMateriaID,
		nextProdutoID: m.nextProdutoID,
		nextPedidoID:  m.nextPedidoID,
		nextItemID:    m.nextItemID,
		clientesByID:  make(map[int64]domain.Cliente, len(m.clientesByID)),
		materiasByID:  make(map[int64]domain.MateriaPrima, len(m.materiasByID)),
		produtosByID:  make(map[int64]domain.Produto, len(m.produtosByID)),
		pedidosByID:   make(map[int64]domain.Pedido, len(m.pedidosByID)),
	}
	for id, c := range m.clientesByID {
		s.clientesByID[id] = c
	}
	for id, mat := range m.materiasByID {
		s.materiasByID[id] = mat
	}
	for id, p := range m.produtosByID {
		s.produtosByID[id] = cloneProduto(p)
	}
	for id, p := range m.pedidosByID {
		s.pedidosByID[id] = clonePedido(p)
	}
	return s
}

func (m *MemoryStore) restore(s memorySnapshot) {
	m.nextClienteID = s.nextClienteID
	m.nextMateriaID = s.nextMateriaID
	m.nextProdutoID = s.nextProdutoID
	m.nextPedidoID = s.nextPedidoID
	m.nextItemID = s.nextItemID
	m.clientesByID = s.clientesByID
	m.materiasByID = s.materiasByID
	m.produtosByID = s.produtosByID
	m.pedidosByID = s.pedidosByID
}

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	snap := tx.store.snapshot()
	ctx = context.WithValue(ctx, txKey{}, true)
	if err := fn(ctx); err != nil {
		tx.store.restore(snap)
		return err
	}
	return nil
}
