package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"token-forge.backend/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// LockDuration is the time we hold the lock while processing
	LockDuration = 30 * time.Second
	// RetentionDuration is how long we keep the response
	RetentionDuration = 24 * time.Hour

	processingMarker = "processing"
)

var (
	redisGet   = redis.Get
	redisSet   = redis.Set
	redisSetNX = redis.SetNX
	redisDel   = redis.Del
)

type storedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

type responseRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware ensures the same mutating request is not processed
// twice: replays of a completed request get the stored response, replays of
// an in-flight request get 409.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		caller, _ := GetWalletAddress(c)
		storageKey := fmt.Sprintf("idempotency:%s:%s", caller, key)
		ctx := c.Request.Context()

		if val, err := redisGet(ctx, storageKey); err == nil {
			if val == processingMarker {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"code":    "ERR_IDEMPOTENCY_CONFLICT",
					"message": "Request already in progress",
				})
				return
			}

			var stored storedResponse
			if err := json.Unmarshal([]byte(val), &stored); err == nil {
				c.Header("X-Idempotent-Replay", "true")
				c.Data(stored.Status, "application/json", []byte(stored.Body))
				c.Abort()
				return
			}
		}

		acquired, err := redisSetNX(ctx, storageKey, processingMarker, LockDuration)
		if err == nil && !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "ERR_IDEMPOTENCY_CONFLICT",
				"message": "Request already in progress",
			})
			return
		}

		recorder := responseRecorder{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = recorder

		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			// Do not pin server failures; let the client retry.
			_ = redisDel(ctx, storageKey)
			return
		}

		stored, err := json.Marshal(storedResponse{
			Status: status,
			Body:   recorder.body.String(),
		})
		if err != nil {
			_ = redisDel(ctx, storageKey)
			return
		}
		_ = redisSet(ctx, storageKey, string(stored), RetentionDuration)
	}
}
