package client

import (
	"fmt"
	"net/url"
)

// SeatClient talks to the bookings service HTTP API on behalf of a user.
type SeatClient struct {
	httpClient *HttpClient
	headers    map[string]string
}

func NewSeatClient(baseURL, userID string) *SeatClient {
	return &SeatClient{
		httpClient: NewHttpClient(baseURL),
		headers:    map[string]string{"X-User-ID": userID},
	}
}

func (c *SeatClient) BookSpare(date string) (*Response, error) {
	return c.httpClient.POSTWithHeaders("/api/v1/bookings/spare", map[string]string{"date": date}, c.headers)
}

func (c *SeatClient) Release(date string) (*Response, error) {
	return c.httpClient.POSTWithHeaders("/api/v1/bookings/release", map[string]string{"date": date}, c.headers)
}

func (c *SeatClient) SeatStatus(date string) (*Response, error) {
	return c.httpClient.GETWithHeaders("/api/v1/bookings/seat-status/"+url.PathEscape(date), c.headers)
}

func (c *SeatClient) Schedule(date string) (*Response, error) {
	return c.httpClient.GET("/api/v1/schedule/date/" + url.PathEscape(date))
}

func (c *SeatClient) NextScheduled() (*Response, error) {
	return c.httpClient.GETWithHeaders("/api/v1/schedule/next", c.headers)
}

// TriggerAutoBooking requires the client user to be an admin. An empty date
// means today in the service's timezone.
func (c *SeatClient) TriggerAutoBooking(date string) (*Response, error) {
	body := map[string]string{}
	if date != "" {
		body["date"] = date
	}
	return c.httpClient.POSTWithHeaders("/api/v1/admin/auto-booking", body, c.headers)
}

func (c *SeatClient) SystemStatus() (*Response, error) {
	return c.httpClient.GETWithHeaders("/api/v1/admin/system-status", c.headers)
}

// CheckStatus turns a non-2xx response into an error carrying the API message.
func CheckStatus(resp *Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("%s: %s", resp.Status, GetErrorMessage(resp))
}
