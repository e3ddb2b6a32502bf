/*
Copyright © 2026 kiteran <kiteran@proton.me>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package client

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/kiteran/userd/pkg/models"
	"github.com/kiteran/userd/pkg/pagination"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type APIResponse struct {
	Code    int                `json:"code"`
	Message string             `json:"message"`
	Data    stdjson.RawMessage `json:"data"`
}

func (c *Client) doRequest(method, path string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if apiResp.Code != http.StatusOK && apiResp.Code != http.StatusCreated {
		return nil, fmt.Errorf("API error: %s", apiResp.Message)
	}
	return apiResp.Data, nil
}

func pageParams(limit int, cursor, direction string) string {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	if direction != "" {
		params.Set("direction", direction)
	}
	return params.Encode()
}

func (c *Client) ListUsers(limit int, cursor, direction string) (*pagination.Page[models.UserDto], error) {
	data, err := c.doRequest("GET", "/api/v1/users?"+pageParams(limit, cursor, direction), nil)
	if err != nil {
		return nil, err
	}

	var page pagination.Page[models.UserDto]
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("failed to unmarshal users: %w", err)
	}
	return &page, nil
}

func (c *Client) GetUser(id int64) (*models.UserDto, error) {
	data, err := c.doRequest("GET", fmt.Sprintf("/api/v1/users/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var user models.UserDto
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

func (c *Client) CreateUser(dto *models.CreateUserDto) (*models.UserDto, error) {
	data, err := c.doRequest("POST", "/api/v1/users", dto)
	if err != nil {
		return nil, err
	}

	var user models.UserDto
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

func (c *Client) UpdateUser(id int64, dto *models.UpdateUserDto) (*models.UserDto, error) {
	data, err := c.doRequest("PATCH", fmt.Sprintf("/api/v1/users/%d", id), dto)
	if err != nil {
		return nil, err
	}

	var user models.UserDto
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

func (c *Client) DeleteUser(id int64) error {
	_, err := c.doRequest("DELETE", fmt.Sprintf("/api/v1/users/%d", id), nil)
	return err
}

func (c *Client) ListUserEvents(userID int64, limit int, cursor, direction string) (*pagination.Page[models.UserEventDto], error) {
	data, err := c.doRequest("GET", fmt.Sprintf("/api/v1/users/%d/events?%s", userID, pageParams(limit, cursor, direction)), nil)
	if err != nil {
		return nil, err
	}

	var page pagination.Page[models.UserEventDto]
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("failed to unmarshal events: %w", err)
	}
	return &page, nil
}
