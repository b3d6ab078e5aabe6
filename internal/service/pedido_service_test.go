package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"figureslab/internal/config"
	"figureslab/internal/domain"
	"figureslab/internal/repository"
	"figureslab/internal/storage"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

type ambiente struct {
	store      *repository.MemoryStore
	clientes   *repository.MemoryClientes
	materias   *repository.MemoryMateriasPrimas
	pedidosRep *repository.MemoryPedidos
	documentos storage.DocumentoStore
	pedidos    *PedidoService
}

func setup(t *testing.T) *ambiente {
	t.Helper()
	store := repository.NewMemoryStore()
	clientes := repository.NewMemoryClientes(store)
	materias := repository.NewMemoryMateriasPrimas(store)
	pedidosRep := repository.NewMemoryPedidos(store)
	tx := repository.NewMemoryTx(store)
	vendedores := config.NewSellerStore([]config.VendedorConfig{
		{ID: "vendedor1", Nome: "Vendedor 1", Ativo: true},
		{ID: "vendedor2", Nome: "Vendedor 2", Ativo: true},
	})
	documentos := storage.NewFSDocumentos(t.TempDir())
	svc := NewPedidoService(clientes, materias, store, pedidosRep, tx, vendedores, documentos, zap.NewNop())
	return &ambiente{
		store:      store,
		clientes:   clientes,
		materias:   materias,
		pedidosRep: pedidosRep,
		documentos: documentos,
		pedidos:    svc,
	}
}

// semeia um cliente, a resina e a "Miniatura A" com ficha 0.2 kg/unidade
func (a *ambiente) semear(t *testing.T, estoqueProduto int64, resinaKg string) (*domain.Cliente, *domain.MateriaPrima, *domain.Produto) {
	t.Helper()
	ctx := context.Background()

	cliente := &domain.Cliente{Nome: "Ana", Email: "ana@example.com", Telefone: "11 99999-0000", Endereco: "Rua A, 1"}
	require.NoError(t, a.clientes.Create(ctx, cliente))

	resina := &domain.MateriaPrima{Nome: "Resina", Quantidade: dec(t, resinaKg), UnidadeMedida: "kg", PrecoUnitario: dec(t, "80")}
	require.NoError(t, a.materias.Create(ctx, resina))

	produto := &domain.Produto{
		Nome:    "Miniatura A",
		Preco:   dec(t, "120"),
		Estoque: estoqueProduto,
		Foto:    "https://example.com/a.png",
		MateriasPrimas: []domain.ProdutoMateriaPrima{
			{MateriaPrimaID: resina.ID, Quantidade: dec(t, "0.2")},
		},
	}
	require.NoError(t, a.store.Create(ctx, produto))
	return cliente, resina, produto
}

func TestCreatePedido_CenarioCompleto(t *testing.T) {
	ctx := context.Background()
	a := setup(t)
	cliente, resina, produto := a.semear(t, 10, "5")

	pedido, err := a.pedidos.CreatePedido(ctx, CriarPedidoRequest{
		ClienteID: cliente.ID,
		Vendedor:  "vendedor1",
		Itens:     []ItemPedidoRequest{{ProdutoID: produto.ID, Quantidade: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPendente, pedido.Status)
	require.NotNil(t, pedido.Cliente)
	assert.Equal(t, "Ana", pedido.Cliente.Nome)
	require.Len(t, pedido.Itens, 1)
	assert.True(t, pedido.Itens[0].PrecoUnitario.Equal(dec(t, "120")),
		"preço capturado deveria ser 120, veio %s", pedido.Itens[0].PrecoUnitario)

	pAtual, err := a.store.GetByID(ctx, produto.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 7, pAtual.Estoque)

	mAtual, err := a.materias.GetByID(ctx, resina.ID)
	require.NoError(t, err)
	assert.True(t, mAtual.Quantidade.Equal(dec(t, "4.4")),
		"resina deveria ficar com 4.4 kg, veio %s", mAtual.Quantidade)
}

func TestCreatePedido_MateriaPrimaInsuficiente(t *testing.T) {
	ctx := context.Background()
	a := setup(t)
	cliente, resina, produto := a.semear(t, 10, "0.5")

	_, err := a.pedidos.CreatePedido(ctx, CriarPedidoRequest{
		ClienteID: cliente.ID,
		Vendedor:  "vendedor1",
		Itens:     []ItemPedidoRequest{{ProdutoID: produto.ID, Quantidade: 3}},
	})
	var insuf *MateriaPrimaInsuficienteError
	require.ErrorAs(t, err, &insuf)
	assert.Equal(t, "Resina", insuf.Nome)
	assert.Equal(t, "Matéria-prima insuficiente: Resina", err.Error())

	// nada mudou
	pAtual, _ := a.store.GetByID(ctx, produto.ID)
	assert.EqualValues(t, 10, pAtual.Estoque)
	mAtual, _ := a.materias.GetByID(ctx, resina.ID)
	assert.True(t, mAtual.Quantidade.Equal(dec(t, "0.5")))
	lista, _ := a.pedidosRep.List(ctx)
	assert.Empty(t, lista)
}

func TestCreatePedido_EstoqueProdutoInsuficiente(t *testing.T) {
	ctx := context.Background()
	a := setup(t)
	cliente, _, produto := a.semear(t, 2, "5")

	_, err := a.pedidos.CreatePedido(ctx, CriarPedidoRequest{
		ClienteID: cliente.ID,
		Vendedor:  "vendedor1",
		Itens:     []ItemPedidoRequest{{ProdutoID: produto.ID, Quantidade: 3}},
	})
	var insuf *EstoqueInsuficienteError
	require.ErrorAs(t, err, &insuf)
	assert.Equal(t, "Estoque insuficiente para o produto Miniatura A", err.Error())
}

// falha no item 2 desfaz os decrementos já aplicados pelo item 1
func TestCreatePedido_FalhaNoSegundoItemDesfazTudo(t *testing.T) {
	ctx := context.Background()
	a := setup(t)
	cliente, resina, produto := a.semear(t, 10, "5")

	semEstoque := &domain.Produto{Nome: "Busto B", Preco: dec(t, "60"), Estoque: 0}
	require.NoError(t, a.store.Create(ctx, semEstoque))

	_, err := a.pedidos.CreatePedido(ctx, CriarPedidoRequest{
		ClienteID: cliente.ID,
		Vendedor:  "vendedor1",
		Itens: []ItemPedidoRequest{
			{ProdutoID: produto.ID, Quantidade: 3},
			{ProdutoID: semEstoque.ID, Quantidade: 1},
		},
	})
	var insuf *EstoqueInsuficienteError
	require.ErrorAs(t, err, &insuf)
	assert.Equal(t, "Busto B", insuf.Produto)

	pAtual, _ := a.store.GetByID(ctx, produto.ID)
	assert.EqualValues(t, 10, pAtual.Estoque, "decremento do item 1 deveria ser desfeito")
	mAtual, _ := a.materias.GetByID(ctx, resina.ID)
	assert.True(t, mAtual.Quantidade.Equal(dec(t, "5")))
	lista, _ := a.pedidosRep.List(ctx)
	assert.Empty(t, lista)
}

func TestCreatePedido_ValidacaoAcumulaTodosOsCampos(t *testing.T) {
	ctx := context.Background()
	a := setup(t)
	a.semear(t, 10, "5")

	_, err := a.pedidos.CreatePedido(ctx, CriarPedidoRequest{
		ClienteID: 999,
		Vendedor:  "vendedor9",
		Itens: []ItemPedidoRequest{
			{ProdutoID: 888, Quantidade: 0},
		},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "O cliente selecionado não existe.", verr.Campos["cliente_id"])
	assert.Equal(t, "O vendedor selecionado é inválido.", verr.Campos["vendedor"])
	assert.Equal(t, "Um dos produtos selecionados não existe.", verr.Campos["itens.0.produto_id"])
	assert.Equal(t, "A quantidade deve ser maior que zero.", verr.Campos["itens.0.quantidade"])
}

func TestCreatePedido_SemItens(t *testing.T) {
	ctx := context.Background()
	a := setup(t)
	cliente, _, _ := a.semear(t, 10, "5")

	_, err := a.pedidos.CreatePedido(ctx, CriarPedidoRequest{
		ClienteID: cliente.ID,
		Vendedor:  "vendedor1",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "É necessário incluir pelo menos um item no pedido.", verr.Campos["itens"])
}

func TestCreatePedido_VendedorInativo(t *testing.T) {
	ctx := context.Background()
	a := setup(t)
	cliente, _, produto := a.semear(t, 10, "5")

	vendedores := config.NewSellerStore([]config.VendedorConfig{
		{ID: "vendedor1", Nome: "Vendedor 1", Ativo: true},
		{ID: "vendedor2", Nome: "Vendedor 2", Ativo: false},
	})
	svc := NewPedidoService(a.clientes, a.materias, a.store, a.pedidosRep,
		repository.NewMemoryTx(a.store), vendedores, a.documentos, zap.NewNop())

	_, err := svc.CreatePedido(ctx, CriarPedidoRequest{
		ClienteID: cliente.ID,
		Vendedor:  "vendedor2",
		Itens:     []ItemPedidoRequest{{ProdutoID: produto.ID, Quantidade: 1}},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Campos, "vendedor")
}

func TestCreatePedido_PrecoImutavelAposCriacao(t *testing.T) {
	ctx := context.Background()
	a := setup(t)
	cliente, _, produto := a.semear(t, 10, "5")

	pedido, err := a.pedidos.CreatePedido(ctx, CriarPedidoRequest{
		ClienteID: cliente.ID,
		Vendedor:  "vendedor1",
		Itens:     []ItemPedidoRequest{{ProdutoID: produto.ID, Quantidade: 2}},
	})
	require.NoError(t, err)
	totalAntes := pedido.Total()

	// aumenta o preço do produto depois do pedido
	atual, err := a.store.GetByID(ctx, produto.ID)
	require.NoError(t, err)
	atual.Preco = dec(t, "999")
	require.NoError(t, a.store.Update(ctx, atual))

	depois, err := a.pedidos.GetPedido(ctx, pedido.ID)
	require.NoError(t, err)
	assert.True(t, depois.Itens[0].PrecoUnitario.Equal(dec(t, "120")),
		"preço capturado não pode acompanhar o produto: %s", depois.Itens[0].PrecoUnitario)
	assert.True(t, depois.Total().Equal(totalAntes))
}

func TestCreatePedido_ConcorrenciaNaoNegativaEstoque(t *testing.T) {
	ctx := context.Background()
	a := setup(t)
	cliente, _, produto := a.semear(t, 5, "100")

	var wg sync.WaitGroup
	erros := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, erros[i] = a.pedidos.CreatePedido(ctx, CriarPedidoRequest{
				ClienteID: cliente.ID,
				Vendedor:  "vendedor1",
				Itens:     []ItemPedidoRequest{{ProdutoID: produto.ID, Quantidade: 3}},
			})
		}(i)
	}
	wg.Wait()

	sucessos := 0
	for _, err := range erros {
		if err == nil {
			sucessos++
			continue
		}
		var insuf *EstoqueInsuficienteError
		require.ErrorAs(t, err, &insuf, "perdedor deveria reportar estoque insuficiente")
	}
	require.Equal(t, 1, sucessos, "com estoque 5 e dois pedidos de 3, só um pode passar")

	pAtual, _ := a.store.GetByID(ctx, produto.ID)
	assert.EqualValues(t, 2, pAtual.Estoque, "apenas o decremento do vencedor se aplica")
}

func TestCreatePedido_FichaVaziaEhValida(t *testing.T) {
	ctx := context.Background()
	a := setup(t)
	cliente, _, _ := a.semear(t, 10, "5")

	revenda := &domain.Produto{Nome: "Pincel importado", Preco: dec(t, "25"), Estoque: 8}
	require.NoError(t, a.store.Create(ctx, revenda))

	pedido, err := a.pedidos.CreatePedido(ctx, CriarPedidoRequest{
		ClienteID: cliente.ID,
		Vendedor:  "vendedor2",
		Itens:     []ItemPedidoRequest{{ProdutoID: revenda.ID, Quantidade: 2}},
	})
	require.NoError(t, err)
	assert.Len(t, pedido.Itens, 1)

	pAtual, _ := a.store.GetByID(ctx, revenda.ID)
	assert.EqualValues(t, 6, pAtual.Estoque)
}

func TestCreatePedido_ComDocumentoFiscal(t *testing.T) {
	ctx := context.Background()
	a := setup(t)
	cliente, _, produto := a.semear(t, 10, "5")

	pedido, err := a.pedidos.CreatePedido(ctx, CriarPedidoRequest{
		ClienteID: cliente.ID,
		Vendedor:  "vendedor1",
		Origem:    "loja física",
		Itens:     []ItemPedidoRequest{{ProdutoID: produto.ID, Quantidade: 1}},
		Documento: &DocumentoUpload{
			Nome:        "nota.pdf",
			Tamanho:     18,
			ContentType: "application/pdf",
			Conteudo:    strings.NewReader("%PDF-1.4 conteudo"),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, pedido.DocumentoFiscal)
	assert.True(t, strings.HasPrefix(*pedido.DocumentoFiscal, "documentos_fiscais/"))
	require.NotNil(t, pedido.Origem)
	assert.Equal(t, "loja física", *pedido.Origem)

	rc, err := a.pedidos.AbrirDocumento(ctx, pedido.ID)
	require.NoError(t, err)
	dados, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "%PDF-1.4 conteudo", string(dados))
}

func TestCreatePedido_DocumentoInvalido(t *testing.T) {
	ctx := context.Background()
	a := setup(t)
	cliente, _, produto := a.semear(t, 10, "5")

	_, err := a.pedidos.CreatePedido(ctx, CriarPedidoRequest{
		ClienteID: cliente.ID,
		Vendedor:  "vendedor1",
		Itens:     []ItemPedidoRequest{{ProdutoID: produto.ID, Quantidade: 1}},
		Documento: &DocumentoUpload{Nome: "nota.png", Tamanho: 10, Conteudo: strings.NewReader("x")},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "O documento fiscal deve ser um arquivo PDF.", verr.Campos["documento_fiscal"])

	_, err = a.pedidos.CreatePedido(ctx, CriarPedidoRequest{
		ClienteID: cliente.ID,
		Vendedor:  "vendedor1",
		Itens:     []ItemPedidoRequest{{ProdutoID: produto.ID, Quantidade: 1}},
		Documento: &DocumentoUpload{Nome: "nota.pdf", Tamanho: 3 << 20, Conteudo: strings.NewReader("x")},
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "O documento fiscal não pode ser maior que 2MB.", verr.Campos["documento_fiscal"])
}

// armazenamento que sempre falha, para exercitar DocumentoFiscalError
type documentosComFalha struct{}

func (documentosComFalha) Salvar(context.Context, string, io.Reader) (string, error) {
	return "", errors.New("disco cheio")
}
func (documentosComFalha) Abrir(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("disco cheio")
}
func (documentosComFalha) Remover(context.Context, string) error { return nil }

func TestCreatePedido_FalhaNoUploadAbortaTudo(t *testing.T) {
	ctx := context.Background()
	a := setup(t)
	cliente, _, produto := a.semear(t, 10, "5")

	svc := NewPedidoService(a.clientes, a.materias, a.store, a.pedidosRep,
		repository.NewMemoryTx(a.store), config.NewSellerStore([]config.VendedorConfig{
			{ID: "vendedor1", Nome: "Vendedor 1", Ativo: true},
		}), documentosComFalha{}, zap.NewNop())

	_, err := svc.CreatePedido(ctx, CriarPedidoRequest{
		ClienteID: cliente.ID,
		Vendedor:  "vendedor1",
		Itens:     []ItemPedidoRequest{{ProdutoID: produto.ID, Quantidade: 1}},
		Documento: &DocumentoUpload{Nome: "nota.pdf", Tamanho: 5, Conteudo: strings.NewReader("x")},
	})
	var docErr *DocumentoFiscalError
	require.ErrorAs(t, err, &docErr)
	assert.Equal(t, "Erro ao processar documento fiscal", err.Error())

	pAtual, _ := a.store.GetByID(ctx, produto.ID)
	assert.EqualValues(t, 10, pAtual.Estoque)
	lista, _ := a.pedidosRep.List(ctx)
	assert.Empty(t, lista)
}

// espião em volta do armazenamento real para observar salvamentos e remoções
type documentosEspiao struct {
	storage.DocumentoStore
	salvos    []string
	removidos []string
}

func (d *documentosEspiao) Salvar(ctx context.Context, nome string, r io.Reader) (string, error) {
	caminho, err := d.DocumentoStore.Salvar(ctx, nome, r)
	if err == nil {
		d.salvos = append(d.salvos, caminho)
	}
	return caminho, err
}

func (d *documentosEspiao) Remover(ctx context.Context, caminho string) error {
	d.removidos = append(d.removidos, caminho)
	return d.DocumentoStore.Remover(ctx, caminho)
}

// aborto depois do upload remove o documento órfão
func TestCreatePedido_AbortoRemoveDocumentoOrfao(t *testing.T) {
	ctx := context.Background()
	a := setup(t)
	cliente, _, produto := a.semear(t, 0, "5")

	espiao := &documentosEspiao{DocumentoStore: a.documentos}
	svc := NewPedidoService(a.clientes, a.materias, a.store, a.pedidosRep,
		repository.NewMemoryTx(a.store), config.NewSellerStore([]config.VendedorConfig{
			{ID: "vendedor1", Nome: "Vendedor 1", Ativo: true},
		}), espiao, zap.NewNop())

	_, err := svc.CreatePedido(ctx, CriarPedidoRequest{
		ClienteID: cliente.ID,
		Vendedor:  "vendedor1",
		Itens:     []ItemPedidoRequest{{ProdutoID: produto.ID, Quantidade: 1}},
		Documento: &DocumentoUpload{Nome: "nota.pdf", Tamanho: 5, Conteudo: strings.NewReader("%PDF x")},
	})
	var insuf *EstoqueInsuficienteError
	require.ErrorAs(t, err, &insuf)

	require.Len(t, espiao.salvos, 1)
	assert.Equal(t, espiao.salvos, espiao.removidos, "documento órfão deveria ser removido")
	_, err = a.documentos.Abrir(ctx, espiao.salvos[0])
	assert.Error(t, err, "arquivo não pode sobrar no disco")

	lista, _ := a.pedidosRep.List(ctx)
	assert.Empty(t, lista)
}

func TestUpdateStatus_TransicoesEDatas(t *testing.T) {
	ctx := context.Background()
	a := setup(t)
	cliente, _, produto := a.semear(t, 10, "5")

	pedido, err := a.pedidos.CreatePedido(ctx, CriarPedidoRequest{
		ClienteID: cliente.ID,
		Vendedor:  "vendedor1",
		Itens:     []ItemPedidoRequest{{ProdutoID: produto.ID, Quantidade: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPendente, pedido.Status)

	time.Sleep(5 * time.Millisecond)
	emProducao, err := a.pedidos.UpdateStatus(ctx, pedido.ID, "em_producao")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEmProducao, emProducao.Status)
	assert.True(t, emProducao.DataAtualizacao.After(pedido.DataAtualizacao),
		"data de atualização deveria avançar")

	time.Sleep(5 * time.Millisecond)
	concluido, err := a.pedidos.UpdateStatus(ctx, pedido.ID, "concluido")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConcluido, concluido.Status)
	assert.True(t, concluido.DataAtualizacao.After(emProducao.DataAtualizacao))

	// sem restrição de ordem: voltar para pendente é aceito
	dePendente, err := a.pedidos.UpdateStatus(ctx, pedido.ID, "pendente")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendente, dePendente.Status)
}

func TestUpdateStatus_Invalido(t *testing.T) {
	ctx := context.Background()
	a := setup(t)
	cliente, _, produto := a.semear(t, 10, "5")
	pedido, err := a.pedidos.CreatePedido(ctx, CriarPedidoRequest{
		ClienteID: cliente.ID,
		Vendedor:  "vendedor1",
		Itens:     []ItemPedidoRequest{{ProdutoID: produto.ID, Quantidade: 1}},
	})
	require.NoError(t, err)

	_, err = a.pedidos.UpdateStatus(ctx, pedido.ID, "cancelado")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = a.pedidos.UpdateStatus(ctx, 999, "pendente")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
