package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"figureslab/internal/config"
	"figureslab/internal/domain"
	"figureslab/internal/repository"
	"figureslab/internal/storage"
)

// TamanhoMaxDocumento limita o documento fiscal a 2MB
const TamanhoMaxDocumento = 2 << 20

// ItemPedidoRequest é uma linha do pedido proposto
type ItemPedidoRequest struct {
	ProdutoID  int64 `json:"produto_id"`
	Quantidade int64 `json:"quantidade"`
}

// DocumentoUpload carrega o documento fiscal anexado à requisição
type DocumentoUpload struct {
	Nome        string
	Tamanho     int64
	ContentType string
	Conteudo    io.Reader
}

// CriarPedidoRequest é a forma tipada da requisição de criação de pedido
type CriarPedidoRequest struct {
	ClienteID int64               `json:"cliente_id"`
	Vendedor  string              `json:"vendedor"`
	Origem    string              `json:"origem"`
	Itens     []ItemPedidoRequest `json:"itens"`
	Documento *DocumentoUpload    `json:"-"`
}

// PedidoService é o único ponto de entrada que transforma um pedido
// proposto em um Pedido persistido. A criação valida estoque de produto e
// de matéria-prima e executa todos os decrementos e inserções dentro de
// uma unidade de trabalho: ou tudo é efetivado, ou nada.
type PedidoService struct {
	clientes   repository.ClienteRepository
	materias   repository.MateriaPrimaRepository
	produtos   repository.ProdutoRepository
	pedidos    repository.PedidoRepository
	tx         repository.TxManager
	vendedores *config.SellerStore
	documentos storage.DocumentoStore
	log        *zap.Logger
}

func NewPedidoService(
	clientes repository.ClienteRepository,
	materias repository.MateriaPrimaRepository,
	produtos repository.ProdutoRepository,
	pedidos repository.PedidoRepository,
	tx repository.TxManager,
	vendedores *config.SellerStore,
	documentos storage.DocumentoStore,
	log *zap.Logger,
) *PedidoService {
	return &PedidoService{
		clientes:   clientes,
		materias:   materias,
		produtos:   produtos,
		pedidos:    pedidos,
		tx:         tx,
		vendedores: vendedores,
		documentos: documentos,
		log:        log,
	}
}

// validar confere a forma da requisição inteira e devolve todas as falhas
// de uma vez, nunca só a primeira
func (s *PedidoService) validar(ctx context.Context, req CriarPedidoRequest) (map[string]string, error) {
	campos := make(map[string]string)

	if req.ClienteID <= 0 {
		campos["cliente_id"] = "O cliente é obrigatório."
	} else if _, err := s.clientes.GetByID(ctx, req.ClienteID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		campos["cliente_id"] = "O cliente selecionado não existe."
	}

	if req.Vendedor == "" {
		campos["vendedor"] = "O vendedor é obrigatório."
	} else if !s.vendedores.Ativo(req.Vendedor) {
		campos["vendedor"] = "O vendedor selecionado é inválido."
	}

	if len(req.Itens) == 0 {
		campos["itens"] = "É necessário incluir pelo menos um item no pedido."
	}
	for i, it := range req.Itens {
		if it.ProdutoID <= 0 {
			campos[fmt.Sprintf("itens.%d.produto_id", i)] = "O produto é obrigatório para cada item."
		} else if _, err := s.produtos.GetByID(ctx, it.ProdutoID); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			campos[fmt.Sprintf("itens.%d.produto_id", i)] = "Um dos produtos selecionados não existe."
		}
		if it.Quantidade < 1 {
			campos[fmt.Sprintf("itens.%d.quantidade", i)] = "A quantidade deve ser maior que zero."
		}
	}

	if doc := req.Documento; doc != nil {
		if !strings.EqualFold(strings.TrimPrefix(extensao(doc.Nome), "."), "pdf") {
			campos["documento_fiscal"] = "O documento fiscal deve ser um arquivo PDF."
		}
		if doc.Tamanho > TamanhoMaxDocumento {
			campos["documento_fiscal"] = "O documento fiscal não pode ser maior que 2MB."
		}
	}

	return campos, nil
}

func extensao(nome string) string {
	if i := strings.LastIndexByte(nome, '.'); i >= 0 {
		return nome[i:]
	}
	return ""
}

// CreatePedido valida a requisição, guarda o documento fiscal e efetiva o
// pedido dentro de uma unidade de trabalho. Qualquer falha desfaz todos
// os decrementos de estoque e remove o documento já gravado.
func (s *PedidoService) CreatePedido(ctx context.Context, req CriarPedidoRequest) (*domain.Pedido, error) {
	campos, err := s.validar(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(campos) > 0 {
		return nil, &ValidationError{Campos: campos}
	}

	var docPath *string
	if req.Documento != nil {
		caminho, err := s.documentos.Salvar(ctx, req.Documento.Nome, req.Documento.Conteudo)
		if err != nil {
			s.log.Error("erro ao fazer upload do documento", zap.Error(err))
			return nil, &DocumentoFiscalError{Err: err}
		}
		docPath = &caminho
	}

	var origem *string
	if req.Origem != "" {
		origem = &req.Origem
	}

	var criado *domain.Pedido
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		pedido := &domain.Pedido{
			ClienteID:       req.ClienteID,
			Vendedor:        req.Vendedor,
			Status:          domain.StatusPendente,
			DocumentoFiscal: docPath,
			Origem:          origem,
		}

		// itens na ordem dada pelo chamador; o primeiro recurso
		// insuficiente encontrado aborta a unidade inteira
		for _, it := range req.Itens {
			produto, err := s.produtos.GetByID(ctx, it.ProdutoID)
			if err != nil {
				return err
			}
			if produto.Estoque < it.Quantidade {
				return &EstoqueInsuficienteError{Produto: produto.Nome}
			}

			consumo := domain.ResolverConsumo(produto, it.Quantidade)
			for _, c := range consumo {
				mp, err := s.materias.GetByID(ctx, c.MateriaPrimaID)
				if err != nil {
					return err
				}
				if mp.Quantidade.LessThan(c.Quantidade) {
					return &MateriaPrimaInsuficienteError{Nome: mp.Nome}
				}
			}

			for _, c := range consumo {
				if err := s.materias.DecrementQuantidade(ctx, c.MateriaPrimaID, c.Quantidade); err != nil {
					if errors.Is(err, repository.ErrEstoqueInsuficiente) {
						return &MateriaPrimaInsuficienteError{Nome: c.Nome}
					}
					return err
				}
			}
			if err := s.produtos.DecrementEstoque(ctx, it.ProdutoID, it.Quantidade); err != nil {
				if errors.Is(err, repository.ErrEstoqueInsuficiente) {
					return &EstoqueInsuficienteError{Produto: produto.Nome}
				}
				return err
			}

			// preço capturado neste momento; mudanças futuras no
			// produto não alteram o pedido
			pedido.Itens = append(pedido.Itens, domain.PedidoItem{
				ProdutoID:     produto.ID,
				Quantidade:    it.Quantidade,
				PrecoUnitario: produto.Preco,
			})
		}

		if err := s.pedidos.Create(ctx, pedido); err != nil {
			return err
		}
		criado = pedido
		return nil
	})
	if err != nil {
		// documento órfão: remoção best-effort, falha só vai para o log
		if docPath != nil {
			if rerr := s.documentos.Remover(ctx, *docPath); rerr != nil {
				s.log.Warn("falha ao remover documento órfão",
					zap.String("caminho", *docPath), zap.Error(rerr))
			}
		}
		s.log.Error("erro ao criar pedido",
			zap.Int64("cliente_id", req.ClienteID), zap.Error(err))
		return nil, err
	}

	return s.pedidos.GetByID(ctx, criado.ID)
}

// UpdateStatus troca o status do pedido e atualiza a data de atualização.
// Qualquer um dos três status legais pode substituir qualquer outro.
func (s *PedidoService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Pedido, error) {
	st, err := domain.ParseStatus(status)
	if err != nil {
		return nil, &ValidationError{Campos: map[string]string{
			"status": "O status informado é inválido.",
		}}
	}
	pedido, err := s.pedidos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pedido.Status = st
	if err := s.pedidos.Update(ctx, pedido); err != nil {
		s.log.Error("erro ao atualizar status do pedido",
			zap.Int64("pedido_id", id), zap.Error(err))
		return nil, err
	}
	return s.pedidos.GetByID(ctx, id)
}

// GetPedido devolve o pedido expandido com cliente e itens
func (s *PedidoService) GetPedido(ctx context.Context, id int64) (*domain.Pedido, error) {
	if id <= 0 {
		return nil, repository.ErrNotFound
	}
	return s.pedidos.GetByID(ctx, id)
}

// ListPedidos devolve todos os pedidos expandidos
func (s *PedidoService) ListPedidos(ctx context.Context) ([]domain.Pedido, error) {
	return s.pedidos.List(ctx)
}

// AbrirDocumento abre o documento fiscal anexado ao pedido
func (s *PedidoService) AbrirDocumento(ctx context.Context, id int64) (io.ReadCloser, error) {
	pedido, err := s.pedidos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pedido.DocumentoFiscal == nil {
		return nil, repository.ErrNotFound
	}
	return s.documentos.Abrir(ctx, *pedido.DocumentoFiscal)
}
