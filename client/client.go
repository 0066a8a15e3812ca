// Package client talks to the reservations API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yeremiapane/reservation-app/models"
)

// Client is a client for the reservations API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Config holds client configuration.
type Config struct {
	BaseURL    string
	Token      string // sent as a Bearer token when set
	HTTPClient *http.Client
}

// New creates a client for the API rooted at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		baseURL:    strings.TrimRight(base.String(), "/"),
		token:      cfg.Token,
		httpClient: httpClient,
	}, nil
}

// APIError is a non-2xx answer. Message is the API's error text.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ReservationInput is the body of a create or full update.
type ReservationInput struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	MobileNumber    string `json:"mobile_number"`
	ReservationDate string `json:"reservation_date"`
	ReservationTime string `json:"reservation_time"`
	People          int    `json:"people"`
}

type TableInput struct {
	TableName string `json:"table_name"`
	Capacity  int    `json:"capacity"`
}

// Seating is a table together with the reservation it was seated with or
// finished for.
type Seating struct {
	Table       models.Table        `json:"table"`
	Reservation *models.Reservation `json:"reservation"`
}

// =============================================================================
// Reservations
// =============================================================================

// ListReservations returns the unfinished reservations on date.
func (c *Client) ListReservations(ctx context.Context, date string) ([]models.Reservation, error) {
	var out []models.Reservation
	err := c.do(ctx, http.MethodGet, "/reservations?"+url.Values{"date": {date}}.Encode(), nil, &out)
	return out, err
}

// SearchByPhone returns every reservation whose number contains mobileNumber.
func (c *Client) SearchByPhone(ctx context.Context, mobileNumber string) ([]models.Reservation, error) {
	var out []models.Reservation
	err := c.do(ctx, http.MethodGet, "/reservations?"+url.Values{"mobile_number": {mobileNumber}}.Encode(), nil, &out)
	return out, err
}

func (c *Client) ReadReservation(ctx context.Context, id string) (*models.Reservation, error) {
	var out models.Reservation
	if err := c.do(ctx, http.MethodGet, "/reservations/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateReservation(ctx context.Context, in ReservationInput) (*models.Reservation, error) {
	var out models.Reservation
	if err := c.do(ctx, http.MethodPost, "/reservations", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateReservation(ctx context.Context, id string, in ReservationInput) (*models.Reservation, error) {
	var out models.Reservation
	if err := c.do(ctx, http.MethodPut, "/reservations/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateReservationStatus(ctx context.Context, id string, status models.ReservationStatus) (*models.Reservation, error) {
	var out models.Reservation
	body := map[string]models.ReservationStatus{"status": status}
	if err := c.do(ctx, http.MethodPut, "/reservations/"+url.PathEscape(id)+"/status", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// Tables
// =============================================================================

func (c *Client) ListTables(ctx context.Context) ([]models.Table, error) {
	var out []models.Table
	err := c.do(ctx, http.MethodGet, "/tables", nil, &out)
	return out, err
}

func (c *Client) CreateTable(ctx context.Context, in TableInput) (*models.Table, error) {
	var out models.Table
	if err := c.do(ctx, http.MethodPost, "/tables", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SeatReservation(ctx context.Context, tableID, reservationID string) (*Seating, error) {
	var out Seating
	body := map[string]string{"reservation_id": reservationID}
	if err := c.do(ctx, http.MethodPut, "/tables/"+url.PathEscape(tableID)+"/seat", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FinishTable clears the table's occupancy.
func (c *Client) FinishTable(ctx context.Context, tableID string) (*Seating, error) {
	var out Seating
	if err := c.do(ctx, http.MethodDelete, "/tables/"+url.PathEscape(tableID)+"/seat", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends body wrapped as {"data": body} and decodes the data field of the
// answer into out.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(map[string]interface{}{"data": body})
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&envelope)
	if errors.Is(decodeErr, io.EOF) {
		decodeErr = nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := envelope.Error
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}

	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
