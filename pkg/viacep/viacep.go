// Package viacep looks up Brazilian postal codes on the ViaCEP web service.
package viacep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"
)

// ErrNotFound is returned when the CEP is malformed, unknown to the service,
// or the service cannot be reached. Callers treat all three the same way.
var ErrNotFound = errors.New("cep not found")

// Address is the partial address a lookup resolves. Number and complement
// are always supplied by the customer, never by the service.
type Address struct {
	PostalCode   string `json:"cep"`
	Street       string `json:"logradouro"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
}

// Client resolves a CEP to a partial address.
type Client interface {
	Lookup(ctx context.Context, cep string) (*Address, error)
}

// HTTPClient is the ViaCEP implementation of Client.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client against the given base URL (e.g.
// https://viacep.com.br).
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Lookup resolves a CEP. Formatting characters are stripped; anything other
// than exactly 8 digits fails without a network call. A transport error, a
// non-2xx status, an undecodable body or the service's own "erro" marker all
// collapse to ErrNotFound.
func (c *HTTPClient) Lookup(ctx context.Context, cep string) (*Address, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, cep)
	if len(digits) != 8 {
		return nil, fmt.Errorf("cep %q: %w", cep, ErrNotFound)
	}

	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, digits)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build viacep request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("viacep unreachable: %w", ErrNotFound)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("viacep status %d: %w", resp.StatusCode, ErrNotFound)
	}

	var body struct {
		Address
		// The service answers 200 with {"erro": true} for unknown codes;
		// older deployments send the string "true".
		Erro json.RawMessage `json:"erro"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("viacep body undecodable: %w", ErrNotFound)
	}
	if len(body.Erro) > 0 {
		return nil, fmt.Errorf("cep %s unknown: %w", digits, ErrNotFound)
	}

	addr := body.Address
	if addr.PostalCode == "" {
		addr.PostalCode = digits
	}
	return &addr, nil
}
