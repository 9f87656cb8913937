package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aquaeye/internal/models"
	"github.com/spf13/viper"
)

// EngineStatus mirrors the daemon's status payload.
type EngineStatus struct {
	Running            bool   `json:"running"`
	SimulationEnabled  bool   `json:"simulation_enabled"`
	GenerationInterval string `json:"generation_interval"`
	EvaluationInterval string `json:"evaluation_interval"`
}

type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *APIClient) doRequest(method, path string, body interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	if token := viper.GetString("token"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(data))
	}

	return data, nil
}

func (c *APIClient) Login(username, password string) (string, error) {
	data, err := c.doRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *APIClient) ListPonds() ([]models.Pond, error) {
	data, err := c.doRequest(http.MethodGet, "/api/v1/ponds", nil)
	if err != nil {
		return nil, err
	}

	var ponds []models.Pond
	if err := json.Unmarshal(data, &ponds); err != nil {
		return nil, err
	}
	return ponds, nil
}

func (c *APIClient) ListAlerts(resolved *bool) ([]models.Alert, error) {
	path := "/api/v1/alerts"
	if resolved != nil {
		path = fmt.Sprintf("%s?resolved=%t", path, *resolved)
	}

	data, err := c.doRequest(http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var alerts []models.Alert
	if err := json.Unmarshal(data, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (c *APIClient) AcknowledgeAlert(id uint) error {
	_, err := c.doRequest(http.MethodPut, fmt.Sprintf("/api/v1/alerts/%d/acknowledge", id), nil)
	return err
}

func (c *APIClient) ResolveAlert(id uint) error {
	_, err := c.doRequest(http.MethodPut, fmt.Sprintf("/api/v1/alerts/%d/resolve", id), nil)
	return err
}

func (c *APIClient) EngineStatus() (*EngineStatus, error) {
	data, err := c.doRequest(http.MethodGet, "/api/v1/engine/status", nil)
	if err != nil {
		return nil, err
	}

	var status EngineStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *APIClient) InjectScenario(pondID uint, scenario string) error {
	_, err := c.doRequest(http.MethodPost, "/api/v1/engine/scenario", map[string]interface{}{
		"pond_id":  pondID,
		"scenario": scenario,
	})
	return err
}
