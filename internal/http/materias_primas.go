package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"figureslab/internal/domain"
)

type materiaPrimaReq struct {
	Nome          string          `json:"nome" binding:"required,max=255"`
	Quantidade    decimal.Decimal `json:"quantidade" binding:"required"`
	UnidadeMedida string          `json:"unidade_medida" binding:"required,max=20"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario" binding:"required"`
}

type estoqueMateriaPrimaReq struct {
	Quantidade decimal.Decimal `json:"quantidade" binding:"required"`
}

// @Summary Lista matérias-primas
// @Tags materias-primas
// @Produce json
// @Success 200 {array} domain.MateriaPrima
// @Router /materias-primas [get]
func (s *Server) listMateriasPrimas(c *gin.Context) {
	lista, err := s.materias.List(c)
	if err != nil {
		s.respostaErro(c, err)
		return
	}
	c.JSON(http.StatusOK, lista)
}

// @Summary Cadastra matéria-prima
// @Tags materias-primas
// @Accept json
// @Produce json
// @Param input body materiaPrimaReq true "Matéria-prima"
// @Success 201 {object} domain.MateriaPrima
// @Failure 422 {object} map[string]interface{}
// @Router /materias-primas [post]
func (s *Server) createMateriaPrima(c *gin.Context) {
	var req materiaPrimaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respostaBind(c, err)
		return
	}
	nova, err := s.materias.Create(c, domain.MateriaPrima{
		Nome:          req.Nome,
		Quantidade:    req.Quantidade,
		UnidadeMedida: req.UnidadeMedida,
		PrecoUnitario: req.PrecoUnitario,
	})
	if err != nil {
		s.respostaErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, nova)
}

// @Summary Busca matéria-prima por id
// @Tags materias-primas
// @Produce json
// @Param id path int true "ID da matéria-prima"
// @Success 200 {object} domain.MateriaPrima
// @Failure 404 {object} map[string]string
// @Router /materias-primas/{id} [get]
func (s *Server) getMateriaPrima(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}
	m, err := s.materias.GetByID(c, id)
	if err != nil {
		s.respostaErro(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// @Summary Atualiza matéria-prima
// @Tags materias-primas
// @Accept json
// @Produce json
// @Param id path int true "ID da matéria-prima"
// @Param input body materiaPrimaReq true "Matéria-prima"
// @Success 200 {object} domain.MateriaPrima
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /materias-primas/{id} [put]
func (s *Server) updateMateriaPrima(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}
	var req materiaPrimaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respostaBind(c, err)
		return
	}
	atualizada, err := s.materias.Update(c, domain.MateriaPrima{
		ID:            id,
		Nome:          req.Nome,
		Quantidade:    req.Quantidade,
		UnidadeMedida: req.UnidadeMedida,
		PrecoUnitario: req.PrecoUnitario,
	})
	if err != nil {
		s.respostaErro(c, err)
		return
	}
	c.JSON(http.StatusOK, atualizada)
}

// @Summary Remove matéria-prima
// @Tags materias-primas
// @Param id path int true "ID da matéria-prima"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /materias-primas/{id} [delete]
func (s *Server) deleteMateriaPrima(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}
	if err := s.materias.Delete(c, id); err != nil {
		s.respostaErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Ajusta o estoque da matéria-prima para um valor absoluto
// @Tags materias-primas
// @Accept json
// @Produce json
// @Param id path int true "ID da matéria-prima"
// @Param input body estoqueMateriaPrimaReq true "Nova quantidade"
// @Success 200 {object} domain.MateriaPrima
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /materias-primas/{id}/estoque [patch]
func (s *Server) atualizarEstoqueMateriaPrima(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}
	var req estoqueMateriaPrimaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respostaBind(c, err)
		return
	}
	m, err := s.materias.AtualizarEstoque(c, id, req.Quantidade)
	if err != nil {
		s.respostaErro(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
