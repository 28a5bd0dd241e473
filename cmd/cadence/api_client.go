package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultClientTimeout is the default timeout for API requests.
const DefaultClientTimeout = 10 * time.Second

// apiClient is the shared HTTP client with timeout.
var apiClient = &http.Client{
	Timeout: DefaultClientTimeout,
}

// apiError mirrors the server's error envelope so CLI users see the message,
// not raw JSON.
type apiError struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(status int, body []byte) error {
	var envelope apiError
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return fmt.Errorf("%s (%s)", envelope.Error.Message, envelope.Error.Kind)
	}
	return fmt.Errorf("API error (%d): %s", status, string(body))
}

// apiGet performs a GET request to the API with timeout.
func apiGet(path string) ([]byte, error) {
	resp, err := apiClient.Get(apiAddr + path)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, decodeError(resp.StatusCode, body)
	}

	return body, nil
}

// apiPost performs a POST request to the API with timeout.
func apiPost(path string, data interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	resp, err := apiClient.Post(apiAddr+path, "application/json", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, decodeError(resp.StatusCode, body)
	}

	return body, nil
}

// apiDo performs a request with an arbitrary method (PATCH, DELETE).
func apiDo(method, path string, data interface{}) ([]byte, error) {
	var reader io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, apiAddr+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := apiClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, decodeError(resp.StatusCode, body)
	}

	return body, nil
}

func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
