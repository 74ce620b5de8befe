package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"token-forge.backend/pkg/redis"
)

func setupIdempotencyRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	return mr
}

func idempotencyRouter(caller string, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/mutate", func(c *gin.Context) {
		if caller != "" {
			c.Set(WalletAddressKey, caller)
		}
		c.Next()
	}, IdempotencyMiddleware(), handler)
	return r
}

func postWithKey(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/mutate", nil)
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyMiddleware_ReplaysStoredResponse(t *testing.T) {
	setupIdempotencyRedis(t)

	calls := 0
	r := idempotencyRouter("0xaaa", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})

	first := postWithKey(r, "key-1")
	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, 1, calls)

	second := postWithKey(r, "key-1")
	require.Equal(t, http.StatusCreated, second.Code)
	require.Equal(t, 1, calls, "handler must not run twice")
	require.Equal(t, "true", second.Header().Get("X-Idempotent-Replay"))
	require.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestIdempotencyMiddleware_NoHeaderPassesThrough(t *testing.T) {
	setupIdempotencyRedis(t)

	calls := 0
	r := idempotencyRouter("0xaaa", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{})
	})

	postWithKey(r, "")
	postWithKey(r, "")
	require.Equal(t, 2, calls)
}

func TestIdempotencyMiddleware_InFlightConflict(t *testing.T) {
	mr := setupIdempotencyRedis(t)
	require.NoError(t, mr.Set("idempotency:0xaaa:key-1", "processing"))

	r := idempotencyRouter("0xaaa", func(c *gin.Context) {
		t.Fatal("handler must not run")
	})

	w := postWithKey(r, "key-1")
	require.Equal(t, http.StatusConflict, w.Code)
	require.Contains(t, w.Body.String(), "ERR_IDEMPOTENCY_CONFLICT")
}

func TestIdempotencyMiddleware_ServerErrorsNotPinned(t *testing.T) {
	setupIdempotencyRedis(t)

	calls := 0
	r := idempotencyRouter("0xaaa", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusInternalServerError, gin.H{"code": "ERR_INTERNAL"})
	})

	postWithKey(r, "key-1")
	w := postWithKey(r, "key-1")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 2, calls, "failed calls must stay retryable")
}

func TestIdempotencyMiddleware_KeysScopedByWallet(t *testing.T) {
	setupIdempotencyRedis(t)

	callsA, callsB := 0, 0
	ra := idempotencyRouter("0xaaa", func(c *gin.Context) {
		callsA++
		c.JSON(http.StatusOK, gin.H{})
	})
	rb := idempotencyRouter("0xbbb", func(c *gin.Context) {
		callsB++
		c.JSON(http.StatusOK, gin.H{})
	})

	postWithKey(ra, "shared-key")
	postWithKey(rb, "shared-key")
	require.Equal(t, 1, callsA)
	require.Equal(t, 1, callsB, "one wallet's key must not shadow another's")
}

func TestIdempotencyMiddleware_StoredResponseExpires(t *testing.T) {
	mr := setupIdempotencyRedis(t)

	calls := 0
	r := idempotencyRouter("0xaaa", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{})
	})

	postWithKey(r, "key-1")
	mr.FastForward(RetentionDuration + time.Minute)
	postWithKey(r, "key-1")
	require.Equal(t, 2, calls)
}
