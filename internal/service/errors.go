package service

import "fmt"

// ValidationError acumula todas as falhas de validação de uma requisição,
// campo a campo, antes de qualquer efeito
type ValidationError struct {
	Campos map[string]string
}

func (e *ValidationError) Error() string { return "os dados informados são inválidos" }

// EstoqueInsuficienteError é a violação de regra de negócio detectada no
// meio da unidade de trabalho; aborta e desfaz o pedido inteiro
type EstoqueInsuficienteError struct {
	Produto string
}

func (e *EstoqueInsuficienteError) Error() string {
	return fmt.Sprintf("Estoque insuficiente para o produto %s", e.Produto)
}

// MateriaPrimaInsuficienteError idem, para um insumo da ficha técnica
type MateriaPrimaInsuficienteError struct {
	Nome string
}

func (e *MateriaPrimaInsuficienteError) Error() string {
	return fmt.Sprintf("Matéria-prima insuficiente: %s", e.Nome)
}

// DocumentoFiscalError é uma falha do armazenamento de documentos; o
// pedido não é criado nesse caso
type DocumentoFiscalError struct {
	Err error
}

func (e *DocumentoFiscalError) Error() string { return "Erro ao processar documento fiscal" }

func (e *DocumentoFiscalError) Unwrap() error { return e.Err }
