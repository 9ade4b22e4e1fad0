package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func performRequest(t *testing.T, handler fiber.Handler) (*http.Response, APIResponse) {
	t.Helper()

	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestSendSuccess(t *testing.T) {
	resp, body := performRequest(t, func(c *fiber.Ctx) error {
		return SendSuccess(c, "all good", fiber.Map{"id": 1})
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, body.Success)
	require.Equal(t, "all good", body.Message)
	require.NotNil(t, body.Data)
}

func TestSendSuccessWithStatusDefaults(t *testing.T) {
	resp, body := performRequest(t, func(c *fiber.Ctx) error {
		return SendSuccessWithStatus(c, 0, "", nil)
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, body.Success)
	require.Equal(t, "success", body.Message)
}

func TestSendSuccessWithStatusCreated(t *testing.T) {
	resp, body := performRequest(t, func(c *fiber.Ctx) error {
		return SendSuccessWithStatus(c, fiber.StatusCreated, "created", fiber.Map{"id": 2})
	})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, body.Success)
	require.Equal(t, "created", body.Message)
}

func TestSendError(t *testing.T) {
	resp, body := performRequest(t, func(c *fiber.Ctx) error {
		return SendError(c, fiber.StatusNotFound, "missing")
	})

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.False(t, body.Success)
	require.Equal(t, "missing", body.Message)
	require.Nil(t, body.Data)
}

func TestSendErrorDefaultsMessage(t *testing.T) {
	resp, body := performRequest(t, func(c *fiber.Ctx) error {
		return SendError(c, fiber.StatusInternalServerError, "")
	})

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, "error", body.Message)
}
