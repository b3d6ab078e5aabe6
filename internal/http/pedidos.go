package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"figureslab/internal/service"
)

type atualizarStatusReq struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Lista pedidos com cliente e itens expandidos
// @Tags pedidos
// @Produce json
// @Success 200 {array} domain.Pedido
// @Router /pedidos [get]
func (s *Server) listPedidos(c *gin.Context) {
	lista, err := s.pedidos.ListPedidos(c)
	if err != nil {
		s.respostaErro(c, err)
		return
	}
	c.JSON(http.StatusOK, lista)
}

// @Summary Cria pedido baixando estoque de produtos e matérias-primas
// @Description Aceita JSON puro ou multipart/form-data; no multipart o campo
// @Description "itens" é uma string JSON e "documento_fiscal" é o arquivo PDF.
// @Tags pedidos
// @Accept json
// @Accept mpfd
// @Produce json
// @Param input body service.CriarPedidoRequest true "Pedido"
// @Success 201 {object} domain.Pedido
// @Failure 422 {object} map[string]interface{}
// @Router /pedidos [post]
func (s *Server) createPedido(c *gin.Context) {
	var req service.CriarPedidoRequest
	contentType := c.ContentType()

	if strings.HasPrefix(contentType, "multipart/form-data") {
		var err error
		req, err = s.pedidoDeFormulario(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Requisição inválida"})
			return
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.respostaBind(c, err)
			return
		}
	}

	if req.Documento != nil {
		defer func() {
			if closer, ok := req.Documento.Conteudo.(io.Closer); ok {
				closer.Close()
			}
		}()
	}

	pedido, err := s.pedidos.CreatePedido(c, req)
	if err != nil {
		s.respostaErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, pedido)
}

// pedidoDeFormulario monta a requisição a partir de multipart: campos
// escalares como form fields, itens como string JSON e o documento fiscal
// como arquivo anexo
func (s *Server) pedidoDeFormulario(c *gin.Context) (service.CriarPedidoRequest, error) {
	var req service.CriarPedidoRequest

	if v := c.PostForm("cliente_id"); v != "" {
		id, err := parseID(v)
		if err != nil {
			return req, err
		}
		req.ClienteID = id
	}
	req.Vendedor = c.PostForm("vendedor")
	req.Origem = c.PostForm("origem")

	if itens := c.PostForm("itens"); itens != "" {
		if err := json.Unmarshal([]byte(itens), &req.Itens); err != nil {
			return req, err
		}
	}

	fh, err := c.FormFile("documento_fiscal")
	if err == nil {
		f, err := fh.Open()
		if err != nil {
			return req, err
		}
		req.Documento = &service.DocumentoUpload{
			Nome:        fh.Filename,
			Tamanho:     fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
			Conteudo:    f,
		}
	} else if err != http.ErrMissingFile {
		return req, err
	}
	return req, nil
}

// @Summary Busca pedido por id
// @Tags pedidos
// @Produce json
// @Param id path int true "ID do pedido"
// @Success 200 {object} domain.Pedido
// @Failure 404 {object} map[string]string
// @Router /pedidos/{id} [get]
func (s *Server) getPedido(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}
	pedido, err := s.pedidos.GetPedido(c, id)
	if err != nil {
		s.respostaErro(c, err)
		return
	}
	c.JSON(http.StatusOK, pedido)
}

// @Summary Atualiza o status do pedido
// @Tags pedidos
// @Accept json
// @Produce json
// @Param id path int true "ID do pedido"
// @Param input body atualizarStatusReq true "Novo status"
// @Success 200 {object} domain.Pedido
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /pedidos/{id}/status [patch]
func (s *Server) atualizarStatusPedido(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}
	var req atualizarStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respostaBind(c, err)
		return
	}
	pedido, err := s.pedidos.UpdateStatus(c, id, req.Status)
	if err != nil {
		s.respostaErro(c, err)
		return
	}
	c.JSON(http.StatusOK, pedido)
}

// @Summary Baixa o documento fiscal anexado ao pedido
// @Tags pedidos
// @Produce application/pdf
// @Param id path int true "ID do pedido"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Router /pedidos/{id}/documento [get]
func (s *Server) getDocumentoPedido(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}
	rc, err := s.pedidos.AbrirDocumento(c, id)
	if err != nil {
		s.respostaErro(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		s.log.Warn("falha ao transmitir documento fiscal", zap.Error(err))
	}
}
