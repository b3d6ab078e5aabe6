package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"figureslab/internal/domain"
)

type clienteReq struct {
	Nome     string `json:"nome" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Telefone string `json:"telefone" binding:"required,max=20"`
	Endereco string `json:"endereco" binding:"required,max=255"`
}

// @Summary Lista clientes
// @Tags clientes
// @Produce json
// @Success 200 {array} domain.Cliente
// @Router /clientes [get]
func (s *Server) listClientes(c *gin.Context) {
	lista, err := s.clientes.List(c)
	if err != nil {
		s.respostaErro(c, err)
		return
	}
	c.JSON(http.StatusOK, lista)
}

// @Summary Cria cliente
// @Tags clientes
// @Accept json
// @Produce json
// @Param input body clienteReq true "Cliente"
// @Success 201 {object} domain.Cliente
// @Failure 422 {object} map[string]interface{}
// @Router /clientes [post]
func (s *Server) createCliente(c *gin.Context) {
	var req clienteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respostaBind(c, err)
		return
	}
	novo, err := s.clientes.Create(c, domain.Cliente{
		Nome:     req.Nome,
		Email:    req.Email,
		Telefone: req.Telefone,
		Endereco: req.Endereco,
	})
	if err != nil {
		s.respostaErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, novo)
}

// @Summary Busca cliente por id
// @Tags clientes
// @Produce json
// @Param id path int true "ID do cliente"
// @Success 200 {object} domain.Cliente
// @Failure 404 {object} map[string]string
// @Router /clientes/{id} [get]
func (s *Server) getCliente(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}
	cli, err := s.clientes.GetByID(c, id)
	if err != nil {
		s.respostaErro(c, err)
		return
	}
	c.JSON(http.StatusOK, cli)
}

// @Summary Atualiza cliente
// @Tags clientes
// @Accept json
// @Produce json
// @Param id path int true "ID do cliente"
// @Param input body clienteReq true "Cliente"
// @Success 200 {object} domain.Cliente
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /clientes/{id} [put]
func (s *Server) updateCliente(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}
	var req clienteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respostaBind(c, err)
		return
	}
	atualizado, err := s.clientes.Update(c, domain.Cliente{
		ID:       id,
		Nome:     req.Nome,
		Email:    req.Email,
		Telefone: req.Telefone,
		Endereco: req.Endereco,
	})
	if err != nil {
		s.respostaErro(c, err)
		return
	}
	c.JSON(http.StatusOK, atualizado)
}

// @Summary Remove cliente e seus pedidos
// @Tags clientes
// @Param id path int true "ID do cliente"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /clientes/{id} [delete]
func (s *Server) deleteCliente(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return
	}
	if err := s.clientes.Delete(c, id); err != nil {
		s.respostaErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
