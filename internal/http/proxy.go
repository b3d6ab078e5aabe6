package httpapi

import (
	"crypto/tls"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// clienteProxy ignora verificação TLS porque os marketplaces de origem
// servem imagens com certificados frequentemente inválidos
var clienteProxy = &http.Client{
	Timeout: 15 * time.Second,
	Transport: &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	},
}

// @Summary Proxy de imagem externa para contornar CORS no frontend
// @Tags proxy
// @Param url query string true "URL da imagem"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /proxy-image [get]
func (s *Server) proxyImage(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	req, err := http.NewRequestWithContext(c, http.MethodGet, url, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}
	req.Header.Set("User-Agent", "FiguresLabBot/1.0")

	resp, err := clienteProxy.Do(req)
	if err != nil {
		s.log.Warn("proxy de imagem falhou", zap.String("url", url), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch image"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch image"})
		return
	}

	c.Header("Content-Type", resp.Header.Get("Content-Type"))
	c.Header("Access-Control-Allow-Origin", "*")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		s.log.Warn("transmissão da imagem interrompida", zap.Error(err))
	}
}
