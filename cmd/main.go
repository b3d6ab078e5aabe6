package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"figureslab/internal/config"
	httpapi "figureslab/internal/http"
	"figureslab/internal/repository"
	"figureslab/internal/service"
	"figureslab/internal/storage"

	_ "figureslab/docs"
)

// @title FiguresLab API
// @version 1.0
// @description Gestão de clientes, matérias-primas, produtos e pedidos da loja de action figures.
// @BasePath /v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	var (
		clientesRepo repository.ClienteRepository
		materiasRepo repository.MateriaPrimaRepository
		produtosRepo repository.ProdutoRepository
		pedidosRepo  repository.PedidoRepository
		tx           repository.TxManager
	)
	if cfg.UsaBanco() {
		db, err := repository.InitDB(cfg.DSN())
		if err != nil {
			logger.Fatal("banco de dados indisponível", zap.Error(err))
		}
		clientesRepo = repository.NewGormClientes(db)
		materiasRepo = repository.NewGormMateriasPrimas(db)
		produtosRepo = repository.NewGormProdutos(db)
		pedidosRepo = repository.NewGormPedidos(db)
		tx = repository.NewGormTx(db)
		logger.Info("backend mysql", zap.String("database", cfg.Database.Name))
	} else {
		store := repository.NewMemoryStore()
		clientesRepo = repository.NewMemoryClientes(store)
		materiasRepo = repository.NewMemoryMateriasPrimas(store)
		produtosRepo = store
		pedidosRepo = repository.NewMemoryPedidos(store)
		tx = repository.NewMemoryTx(store)
		logger.Info("backend em memória")
	}

	vendedores := config.NewSellerStore(cfg.Vendedores)
	documentos := storage.NewFSDocumentos(cfg.Storage.Dir)

	clientesSvc := service.NewClienteService(clientesRepo)
	materiasSvc := service.NewMateriaPrimaService(materiasRepo)
	produtosSvc := service.NewProdutoService(produtosRepo, materiasRepo)
	pedidosSvc := service.NewPedidoService(clientesRepo, materiasRepo, produtosRepo, pedidosRepo, tx, vendedores, documentos, logger)
	relatoriosSvc := service.NewRelatorioService(pedidosRepo, produtosRepo)

	srv := httpapi.NewServer(clientesSvc, materiasSvc, produtosSvc, pedidosSvc, relatoriosSvc,
		vendedores, logger, cfg.Server.CORSOrigin)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("servidor HTTP no ar", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
