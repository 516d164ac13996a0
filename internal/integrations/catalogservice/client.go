package catalogservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с CatalogService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента CatalogService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetCompany получает компанию с расписанием работы, мастерами и менеджерами
func (c *Client) GetCompany(ctx context.Context, companyID int64) (*Company, error) {
	url := fmt.Sprintf("%s/internal/companies/%d", c.baseURL, companyID)

	var company Company
	if err := c.getJSON(ctx, url, &company, ErrCompanyNotFound); err != nil {
		return nil, err
	}

	return &company, nil
}

// GetService получает услугу компании
func (c *Client) GetService(ctx context.Context, companyID, serviceID int64) (*Service, error) {
	url := fmt.Sprintf("%s/internal/companies/%d/services/%d", c.baseURL, companyID, serviceID)

	var service Service
	if err := c.getJSON(ctx, url, &service, ErrServiceNotFound); err != nil {
		return nil, err
	}

	return &service, nil
}

// GetServiceDurations получает длительности услуг одним batch-запросом.
// Используется для расчёта требуемого количества слотов при мультиуслуговой записи.
func (c *Client) GetServiceDurations(ctx context.Context, companyID int64, serviceIDs []int64) ([]ServiceDuration, error) {
	ids := make([]string, len(serviceIDs))
	for i, id := range serviceIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}

	url := fmt.Sprintf("%s/internal/companies/%d/services/durations?ids=%s",
		c.baseURL, companyID, strings.Join(ids, ","))

	var durations []ServiceDuration
	if err := c.getJSON(ctx, url, &durations, ErrServiceNotFound); err != nil {
		return nil, err
	}

	return durations, nil
}

// getJSON выполняет GET запрос и декодирует JSON ответ.
// notFoundErr возвращается при статусе 404.
func (c *Client) getJSON(ctx context.Context, url string, dst interface{}, notFoundErr error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return fmt.Errorf("%w: invalid request parameters", ErrInvalidResponse)
	case http.StatusNotFound:
		return notFoundErr
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}

// WorkingHoursForDay возвращает расписание работы компании на день недели
func (co *Company) WorkingHoursForDay(weekday time.Weekday) DaySchedule {
	switch weekday {
	case time.Monday:
		return co.WorkingHours.Monday
	case time.Tuesday:
		return co.WorkingHours.Tuesday
	case time.Wednesday:
		return co.WorkingHours.Wednesday
	case time.Thursday:
		return co.WorkingHours.Thursday
	case time.Friday:
		return co.WorkingHours.Friday
	case time.Saturday:
		return co.WorkingHours.Saturday
	case time.Sunday:
		return co.WorkingHours.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}
