// Package backend talks to the REST backend that owns receipts, products,
// clients and orders. Every request carries the tenant from ctx.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sangkips/gestion-api/internal/domain/entity"
	domainRepo "github.com/sangkips/gestion-api/internal/domain/repository"
	"github.com/sangkips/gestion-api/internal/infrastructure/repository"
	"github.com/sangkips/gestion-api/pkg/apperror"
)

// TenantHeader carries the company id to the backend
const TenantHeader = "X-Company-ID"

// maxErrorBody caps how much of an error response is read for logging
const maxErrorBody = 4 << 10

// Client is the HTTP gateway to the backend
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var (
	_ domainRepo.ReceiptSource    = (*Client)(nil)
	_ domainRepo.CompanyDirectory = (*Client)(nil)
	_ domainRepo.ProductCatalog   = (*Client)(nil)
	_ domainRepo.ClientDirectory  = (*Client)(nil)
	_ domainRepo.OrderSink        = (*Client)(nil)
)

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) GetReceipt(ctx context.Context, id string) (*entity.Receipt, error) {
	var payload ReceiptPayload
	if err := c.do(ctx, http.MethodGet, "/receipts/"+url.PathEscape(id), nil, &payload, "Receipt"); err != nil {
		return nil, err
	}
	r, err := payload.ToEntity()
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("receipt_id", id).Msg("backend sent an invalid receipt")
		return nil, apperror.NewBadGatewayError(err.Error())
	}
	return r, nil
}

func (c *Client) GetCompany(ctx context.Context) (*entity.CompanyInfo, error) {
	tenantID, ok := repository.GetTenantID(ctx)
	if !ok {
		return nil, apperror.ErrTenantRequired
	}
	var payload companyPayload
	if err := c.do(ctx, http.MethodGet, "/companies/"+url.PathEscape(tenantID), nil, &payload, "Company"); err != nil {
		return nil, err
	}
	return &entity.CompanyInfo{
		ID:      payload.ID,
		Name:    payload.Name,
		Address: payload.Address,
		Phone:   payload.Phone,
		Email:   payload.Email,
	}, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	var payload productPayload
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, &payload, "Product"); err != nil {
		return nil, err
	}
	p, err := payload.toEntity()
	if err != nil {
		return nil, apperror.NewBadGatewayError(err.Error())
	}
	return p, nil
}

func (c *Client) GetClient(ctx context.Context, id string) (*entity.Client, error) {
	var payload clientPayload
	if err := c.do(ctx, http.MethodGet, "/clients/"+url.PathEscape(id), nil, &payload, "Client"); err != nil {
		return nil, err
	}
	return payload.toEntity(), nil
}

func (c *Client) CreateOrder(ctx context.Context, order *entity.OrderPayload) (*entity.OrderRef, error) {
	var payload orderRefPayload
	if err := c.do(ctx, http.MethodPost, "/orders", newOrderWire(order), &payload, "Order"); err != nil {
		return nil, err
	}
	return &entity.OrderRef{ID: payload.ID, OrderNumber: payload.OrderNumber}, nil
}

// Ping checks the backend is reachable. Used by the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("backend health returned %d", resp.StatusCode)
	}
	return nil
}

// do sends one JSON request. 404 becomes NotFound(resource); any other
// non-2xx or transport failure becomes BadGateway.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, resource string) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: marshal %s: %w", resource, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("backend: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tenantID, ok := repository.GetTenantID(ctx); ok {
		req.Header.Set(TenantHeader, tenantID)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		log.Ctx(ctx).Error().Err(err).Str("method", method).Str("path", path).Msg("backend unreachable")
		return apperror.ErrBackendUnavailable
	}
	defer resp.Body.Close()

	logger := log.Ctx(ctx).With().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Logger()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperror.NewNotFoundError(resource)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Warn().Bytes("body", snippet).Msg("backend returned an error")
		return apperror.NewBadGatewayError(fmt.Sprintf("backend returned %d for %s", resp.StatusCode, resource))
	}
	logger.Debug().Msg("backend call")

	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperror.NewBadGatewayError("backend: read " + resource + ": " + err.Error())
	}
	if err := decodeEnvelope(raw, out); err != nil {
		return apperror.NewBadGatewayError("backend: decode " + resource + ": " + err.Error())
	}
	return nil
}

// decodeEnvelope accepts both a bare object and {"data": {...}}
func decodeEnvelope(raw []byte, out interface{}) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 && envelope.Data[0] == '{' {
		raw = envelope.Data
	}
	return json.Unmarshal(raw, out)
}
