package httpapi

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"figureslab/internal/config"
	"figureslab/internal/repository"
	"figureslab/internal/service"
)

type Server struct {
	engine     *gin.Engine
	clientes   *service.ClienteService
	materias   *service.MateriaPrimaService
	produtos   *service.ProdutoService
	pedidos    *service.PedidoService
	relatorios *service.RelatorioService
	vendedores *config.SellerStore
	log        *zap.Logger
	corsOrigin string
}

func NewServer(
	clientes *service.ClienteService,
	materias *service.MateriaPrimaService,
	produtos *service.ProdutoService,
	pedidos *service.PedidoService,
	relatorios *service.RelatorioService,
	vendedores *config.SellerStore,
	log *zap.Logger,
	corsOrigin string,
) *Server {
	registrarNomesJSON()
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	s := &Server{
		engine:     r,
		clientes:   clientes,
		materias:   materias,
		produtos:   produtos,
		pedidos:    pedidos,
		relatorios: relatorios,
		vendedores: vendedores,
		log:        log,
		corsOrigin: corsOrigin,
	}
	r.Use(s.cors())
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

// registrarNomesJSON faz o validator reportar os campos pelos nomes do
// JSON, que são os nomes que o cliente da API conhece
func registrarNomesJSON() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// cors replica os cabeçalhos que o backend anterior emitia
func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", s.corsOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// rota alternativa de exclusão mantida por compatibilidade
	s.engine.POST("/v1/produtos/delete/:id", s.deleteProduto)

	v1 := s.engine.Group("/v1")
	{
		clientes := v1.Group("/clientes")
		clientes.GET("", s.listClientes)
		clientes.POST("", s.createCliente)
		clientes.GET(":id", s.getCliente)
		clientes.PUT(":id", s.updateCliente)
		clientes.DELETE(":id", s.deleteCliente)

		materias := v1.Group("/materias-primas")
		materias.GET("", s.listMateriasPrimas)
		materias.POST("", s.createMateriaPrima)
		materias.GET(":id", s.getMateriaPrima)
		materias.PUT(":id", s.updateMateriaPrima)
		materias.DELETE(":id", s.deleteMateriaPrima)
		materias.PATCH(":id/estoque", s.atualizarEstoqueMateriaPrima)

		produtos := v1.Group("/produtos")
		produtos.GET("", s.listProdutos)
		produtos.POST("", s.createProduto)
		produtos.GET(":id", s.getProduto)
		produtos.PUT(":id", s.updateProduto)
		produtos.DELETE(":id", s.deleteProduto)

		pedidos := v1.Group("/pedidos")
		pedidos.GET("", s.listPedidos)
		pedidos.POST("", s.createPedido)
		pedidos.GET(":id", s.getPedido)
		pedidos.PATCH(":id/status", s.atualizarStatusPedido)
		pedidos.GET(":id/documento", s.getDocumentoPedido)

		vendedores := v1.Group("/vendedores")
		vendedores.GET("", s.listVendedores)
		vendedores.PATCH(":id", s.updateVendedor)

		v1.GET("/relatorios/lucros", s.relatorioLucros)
		v1.GET("/proxy-image", s.proxyImage)
	}
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// respostaErro concentra o mapeamento erro → status usado por todos os
// handlers, no formato {"message": ...} (mais "errors" campo a campo
// quando há falha de validação)
func (s *Server) respostaErro(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "Os dados informados são inválidos.",
			"errors":  verr.Campos,
		})
		return
	}

	var estoqueErr *service.EstoqueInsuficienteError
	var materiaErr *service.MateriaPrimaInsuficienteError
	var docErr *service.DocumentoFiscalError
	if errors.As(err, &estoqueErr) || errors.As(err, &materiaErr) || errors.As(err, &docErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		return
	}

	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, config.ErrVendedorDesconhecido) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Registro não encontrado"})
		return
	}

	s.log.Error("erro interno", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro interno"})
}

// respostaBind trata erros de desserialização/validação do gin: JSON mal
// formado vira 400; campos inválidos viram 422 com o mapa campo→mensagem
func (s *Server) respostaBind(c *gin.Context, err error) {
	if campos := mensagensValidacao(err); len(campos) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "Os dados informados são inválidos.",
			"errors":  campos,
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": "JSON inválido"})
}

func mensagensValidacao(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	campos := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		campo := fe.Field()
		switch fe.Tag() {
		case "required":
			campos[campo] = "Campo obrigatório."
		case "email":
			campos[campo] = "Email inválido."
		case "url":
			campos[campo] = "URL inválida."
		case "max":
			campos[campo] = "Valor acima do limite permitido."
		case "min":
			campos[campo] = "Valor abaixo do mínimo permitido."
		default:
			campos[campo] = "Valor inválido."
		}
	}
	return campos
}
