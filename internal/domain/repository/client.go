package repository

import "context"

// ClientTypeConfidential es el único response_type habilitado para client_credentials.
const ClientTypeConfidential = "confidential"

// Client es un cliente OAuth provisto externamente. El core solo lo lee.
type Client struct {
	ID           int64  `json:"id"`
	Identifier   string `json:"identifier"`
	SecretHash   string `json:"secret_hash"`
	ResponseType string `json:"response_type"`
}

// IsConfidential reporta si el cliente puede usar client_credentials.
func (c *Client) IsConfidential() bool {
	return c != nil && c.ResponseType == ClientTypeConfidential
}

// CreateClientInput contiene los datos para dar de alta un client desde la CLI.
type CreateClientInput struct {
	Identifier   string
	SecretHash   string
	ResponseType string
}

// ClientRepository define operaciones sobre clients.
type ClientRepository interface {
	// GetByIdentifier retorna ErrNotFound si no existe.
	GetByIdentifier(ctx context.Context, identifier string) (*Client, error)

	// Create retorna ErrConflict si el identifier ya existe.
	Create(ctx context.Context, input CreateClientInput) (*Client, error)
}
