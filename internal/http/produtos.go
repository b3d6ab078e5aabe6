package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"figureslab/internal/domain"
	"figureslab/internal/repository"
)

type fichaTecnicaReq struct {
	ID         int64           `json:"id" binding:"required"`
	Quantidade decimal.Decimal `json:"quantidade" binding:"required"`
}

type produtoReq struct {
	Nome         string            `json:"nome" binding:"required,max=255"`
	Preco        decimal.Decimal   `json:"preco" binding:"required"`
	Estoque      int64             `json:"estoque"`
	Foto         string            `json:"foto" binding:"omitempty,url,max=2048"`
	Descricao    *string           `json:"descricao"`
	Fotos        []string          `json:"fotos" binding:"omitempty,dive,url"`
	MateriaPrima []fichaTecnicaReq `json:"materiaPrima"`
}

func (r produtoReq) paraDominio(id int64) domain.Produto {
	ficha := make([]domain.ProdutoMateriaPrima, 0, len(r.MateriaPrima))
	for _, mp := range r.MateriaPrima {
		ficha = append(ficha, domain.ProdutoMateriaPrima{
			ProdutoID:      id,
			MateriaPrimaID: mp.ID,
			Quantidade:     mp.Quantidade,
		})
	}
	return domain.Produto{
		ID:             id,
		Nome:           r.Nome,
		Preco:          r.Preco,
		Estoque:        r.Estoque,
		Foto:           r.Foto,
		Descricao:      r.Descricao,
		Fotos:          r.Fotos,
		MateriasPrimas: ficha,
	}
}

// @Summary Lista produtos com filtros opcionais
// @Tags produtos
// @Produce json
// @Param nome query string false "Filtra por trecho do nome"
// @Param preco_min query number false "Preço mínimo"
// @Param preco_max query number false "Preço máximo"
// @Success 200 {array} domain.Produto
// @Router /produtos [get]
func (s *Server) listProdutos(c *gin.Context) {
	var filtro repository.ProdutoFilter
	filtro.NomeContem = c.Query("nome")
	if v := c.Query("preco_min"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "preco_min inválido"})
			return
		}
		filtro.PrecoMin = &d
	}
	if v := c.Query("preco_max"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "preco_max inválido"})
			return
		}
		filtro.PrecoMax = &d
	}
	lista, err := s.produtos.List(c, filtro)
	if err != nil {
		s.respostaErro(c, err)
		return
	}
	c.JSON(http.StatusOK, lista)
}

// @Summary Cadastra produto com ficha técnica
// @Tags produtos
// @Accept json
// @Produce json
// @Param input body produtoReq true "Produto"
// @Success 201 {object} domain.Produto
// @Failure 422 {object} map[string]interface{}
// @Router /produtos [post]
func (s *Server) createProduto(c *gin.Context) {
	var req produtoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respostaBind(c, err)
		return
	}
	novo, err := s.produtos.Create(c, req.paraDominio(0))
	if err != nil {
		s.respostaErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, novo)
}

// @Summary Busca produto por id
// @Tags produtos
// @Produce json
// @Param id path int true "ID do produto"
// @Success 200 {object} domain.Produto
// @Failure 404 {object} map[string]string
// @Router /produtos/{id} [get]
func (s *Server) getProduto(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}
	p, err := s.produtos.GetByID(c, id)
	if err != nil {
		s.respostaErro(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Atualiza produto; a ficha técnica enviada substitui a atual
// @Tags produtos
// @Accept json
// @Produce json
// @Param id path int true "ID do produto"
// @Param input body produtoReq true "Produto"
// @Success 200 {object} domain.Produto
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /produtos/{id} [put]
func (s *Server) updateProduto(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}
	var req produtoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respostaBind(c, err)
		return
	}
	atualizado, err := s.produtos.Update(c, req.paraDominio(id))
	if err != nil {
		s.respostaErro(c, err)
		return
	}
	c.JSON(http.StatusOK, atualizado)
}

// @Summary Remove produto
// @Tags produtos
// @Param id path int true "ID do produto"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /produtos/{id} [delete]
func (s *Server) deleteProduto(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}
	if err := s.produtos.Delete(c, id); err != nil {
		s.respostaErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
