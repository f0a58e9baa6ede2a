package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"tourbook/models"
	"tourbook/utils"

	"go.uber.org/zap"
)

// RESTAdapter talks to a JSON-over-HTTP scheduling vendor. Every call is
// bounded by the configured timeout; a timed-out call is a failure and
// is never retried here.
type RESTAdapter struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewRESTAdapter(baseURL, apiKey string, timeout time.Duration) *RESTAdapter {
	return &RESTAdapter{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (a *RESTAdapter) CheckAvailability(ctx context.Context, tourID, date string) models.Availability {
	logger := utils.GetLogger()

	endpoint := fmt.Sprintf("%s/availability?%s", a.baseURL, url.Values{
		"tourId": {tourID},
		"date":   {date},
	}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return degraded(fmt.Sprintf("bad availability request: %v", err))
	}
	a.decorate(req)

	resp, err := a.client.Do(req)
	if err != nil {
		logger.Warn("provider availability call failed", zap.String("tourId", tourID), zap.Error(err))
		return degraded("scheduling backend unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("provider availability returned non-200",
			zap.String("tourId", tourID), zap.Int("status", resp.StatusCode))
		return degraded(fmt.Sprintf("scheduling backend returned status %d", resp.StatusCode))
	}

	var result models.Availability
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.Warn("provider availability decode failed", zap.Error(err))
		return degraded("scheduling backend returned malformed response")
	}
	return result
}

func (a *RESTAdapter) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal booking request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/bookings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	a.decorate(httpReq)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("booking creation call failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var booking models.Booking
		if err := json.NewDecoder(resp.Body).Decode(&booking); err != nil {
			return nil, fmt.Errorf("failed to decode booking response: %w", err)
		}
		return &booking, nil
	case http.StatusConflict:
		return nil, ErrSlotFull
	default:
		return nil, fmt.Errorf("booking creation returned status %d", resp.StatusCode)
	}
}

func (a *RESTAdapter) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/bookings/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	a.decorate(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("booking fetch call failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var booking models.Booking
		if err := json.NewDecoder(resp.Body).Decode(&booking); err != nil {
			return nil, fmt.Errorf("failed to decode booking response: %w", err)
		}
		return &booking, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("booking fetch returned status %d", resp.StatusCode)
	}
}

func (a *RESTAdapter) CancelBooking(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/bookings/"+url.PathEscape(id)+"/cancel", nil)
	if err != nil {
		return err
	}
	a.decorate(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("booking cancellation call failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrAlreadyCancelled
	default:
		return fmt.Errorf("booking cancellation returned status %d", resp.StatusCode)
	}
}

func (a *RESTAdapter) decorate(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("X-API-Key", a.apiKey)
	}
}

func degraded(reason string) models.Availability {
	return models.Availability{Available: false, Reason: reason, Degraded: true}
}
