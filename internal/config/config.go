package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config reúne todas as configurações da aplicação
type Config struct {
	Server struct {
		Addr       string `mapstructure:"addr"`
		CORSOrigin string `mapstructure:"cors_origin"`
	} `mapstructure:"server"`
	Storage struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"storage"`
	Database struct {
		Driver   string `mapstructure:"driver"`
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Vendedores []VendedorConfig `mapstructure:"vendedores"`
}

// VendedorConfig é a carga inicial da tabela de vendedores
type VendedorConfig struct {
	ID    string `mapstructure:"id"`
	Nome  string `mapstructure:"nome"`
	Ativo bool   `mapstructure:"ativo"`
}

// Load lê config/config.yaml quando presente; sem arquivo valem os
// defaults (backend em memória, uploads em ./uploads)
func Load() (*Config, error) {
	viper.AddConfigPath("./config")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.addr", ":9091")
	viper.SetDefault("server.cors_origin", "*")
	viper.SetDefault("storage.dir", "./uploads")
	viper.SetDefault("database.driver", "")
	viper.SetDefault("database.host", "127.0.0.1")
	viper.SetDefault("database.port", "3306")
	viper.SetDefault("database.user", "root")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.name", "figureslab")
	viper.SetDefault("vendedores", []map[string]any{
		{"id": "vendedor1", "nome": "Vendedor 1", "ativo": true},
		{"id": "vendedor2", "nome": "Vendedor 2", "ativo": true},
	})

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("falha ao ler configuração: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("falha ao decodificar configuração: %w", err)
	}
	return &cfg, nil
}

// DSN monta a string de conexão MySQL
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// UsaBanco indica se há banco configurado; sem driver o backend é o
// armazenamento em memória
func (c *Config) UsaBanco() bool {
	return c.Database.Driver == "mysql"
}
