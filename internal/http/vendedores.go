package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type vendedorReq struct {
	Nome  *string `json:"nome" binding:"omitempty,max=255"`
	Ativo *bool   `json:"ativo"`
}

// @Summary Lista os vendedores configurados
// @Tags vendedores
// @Produce json
// @Success 200 {array} config.Vendedor
// @Router /vendedores [get]
func (s *Server) listVendedores(c *gin.Context) {
	c.JSON(http.StatusOK, s.vendedores.Todos())
}

// @Summary Atualiza nome ou ativação de um vendedor
// @Tags vendedores
// @Accept json
// @Produce json
// @Param id path string true "ID do vendedor"
// @Param input body vendedorReq true "Campos a alterar"
// @Success 200 {object} config.Vendedor
// @Failure 404 {object} map[string]string
// @Router /vendedores/{id} [patch]
func (s *Server) updateVendedor(c *gin.Context) {
	id := c.Param("id")
	var req vendedorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respostaBind(c, err)
		return
	}
	vend, ok := s.vendedores.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Registro não encontrado"})
		return
	}
	if req.Nome != nil {
		atualizado, err := s.vendedores.AtualizarNome(id, *req.Nome)
		if err != nil {
			s.respostaErro(c, err)
			return
		}
		vend = atualizado
	}
	if req.Ativo != nil {
		atualizado, err := s.vendedores.DefinirAtivo(id, *req.Ativo)
		if err != nil {
			s.respostaErro(c, err)
			return
		}
		vend = atualizado
	}
	c.JSON(http.StatusOK, vend)
}

// @Summary Relatório de lucros com participação por vendedor
// @Tags relatorios
// @Produce json
// @Success 200 {object} service.RelatorioLucros
// @Router /relatorios/lucros [get]
func (s *Server) relatorioLucros(c *gin.Context) {
	rel, err := s.relatorios.Lucros(c)
	if err != nil {
		s.respostaErro(c, err)
		return
	}
	c.JSON(http.StatusOK, rel)
}
