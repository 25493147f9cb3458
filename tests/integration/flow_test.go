//go:build integration
// +build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	baseURL = "http://localhost:8080/api/v1"
)

func postJSON(t *testing.T, client *http.Client, url, token string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, client *http.Client, url, token string, out any) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestEndToEndFlow(t *testing.T) {
	// This test assumes the API server is running on localhost:8080
	// alongside its Postgres and Redis (docker-compose up).

	env := SetupTestEnv(t)
	defer env.Teardown()

	client := &http.Client{}
	var accessToken, refreshToken string

	t.Run("Register", func(t *testing.T) {
		resp := postJSON(t, client, baseURL+"/auth/register", "", map[string]string{
			"email":        "tecnico@example.com",
			"password":     "password123",
			"display_name": "Técnico Uno",
		})
		defer resp.Body.Close()

		require.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("Login", func(t *testing.T) {
		resp := postJSON(t, client, baseURL+"/auth/login", "", map[string]string{
			"email":    "tecnico@example.com",
			"password": "password123",
		})
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Profile struct {
				Role   string `json:"role"`
				Status string `json:"status"`
			} `json:"profile"`
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

		// No stored profile yet: the identity gets the synthesized default.
		assert.Equal(t, "technician", result.Profile.Role)
		assert.Equal(t, "active", result.Profile.Status)
		require.NotEmpty(t, result.AccessToken)

		accessToken = result.AccessToken
		refreshToken = result.RefreshToken
	})

	t.Run("Me", func(t *testing.T) {
		var profile struct {
			Email       string `json:"email"`
			DisplayName string `json:"display_name"`
		}
		resp := getJSON(t, client, baseURL+"/users/me", accessToken, &profile)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "tecnico@example.com", profile.Email)
		assert.Equal(t, "Técnico Uno", profile.DisplayName)
	})

	t.Run("Theme Defaults And Toggles", func(t *testing.T) {
		var current struct {
			Theme string `json:"theme"`
		}
		resp := getJSON(t, client, baseURL+"/users/me/theme", accessToken, &current)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "light", current.Theme)

		toggled := postJSON(t, client, baseURL+"/users/me/theme/toggle", accessToken, nil)
		defer toggled.Body.Close()
		require.Equal(t, http.StatusOK, toggled.StatusCode)

		resp = getJSON(t, client, baseURL+"/users/me/theme", accessToken, &current)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "dark", current.Theme)
	})

	t.Run("Protected Route Without Token", func(t *testing.T) {
		resp := getJSON(t, client, baseURL+"/notifications/", "", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Admin Route As Technician", func(t *testing.T) {
		resp := postJSON(t, client, baseURL+"/admin/equipment", accessToken, map[string]any{
			"name":          "Compresor",
			"interval_days": 30,
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Refresh Rotates The Session", func(t *testing.T) {
		resp := postJSON(t, client, baseURL+"/auth/refresh", "", map[string]string{
			"refresh_token": refreshToken,
		})
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		require.NotEmpty(t, result.RefreshToken)

		// The old refresh token is revoked by the rotation.
		reuse := postJSON(t, client, baseURL+"/auth/refresh", "", map[string]string{
			"refresh_token": refreshToken,
		})
		defer reuse.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, reuse.StatusCode)

		refreshToken = result.RefreshToken
		accessToken = result.AccessToken
	})

	t.Run("Logout", func(t *testing.T) {
		resp := postJSON(t, client, baseURL+"/auth/logout", "", map[string]string{
			"refresh_token": refreshToken,
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}
