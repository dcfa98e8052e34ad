package handler

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler はヘルスチェックハンドラー
type HealthHandler struct {
	db          *sqlx.DB
	redisClient *redis.Client
}

// NewHealthHandler はHealthHandlerを作成する
// dbとredisClientはnilでもよく、その場合Readyはそのストアを検査しない
func NewHealthHandler(db *sqlx.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redisClient: redisClient}
}

// HealthResponse はヘルスチェックのレスポンス
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ReadyResponse は依存ストアの疎通確認結果
type ReadyResponse struct {
	Status string            `json:"status"`
	Stores map[string]string `json:"stores"`
}

// Check はヘルスチェックを行う
// @Summary ヘルスチェック
// @Description アプリケーションの健全性を確認する
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Ready は依存ストアへの疎通を確認する
// @Summary レディネスチェック
// @Description PostgreSQLとRedisへの接続を確認する
// @Tags health
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /health/ready [get]
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	resp := ReadyResponse{Status: "ok", Stores: map[string]string{}}
	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			resp.Status = "degraded"
			resp.Stores["postgres"] = err.Error()
		} else {
			resp.Stores["postgres"] = "ok"
		}
	}
	if h.redisClient != nil {
		if err := h.redisClient.Ping(ctx).Err(); err != nil {
			resp.Status = "degraded"
			resp.Stores["redis"] = err.Error()
		} else {
			resp.Stores["redis"] = "ok"
		}
	}
	if resp.Status != "ok" {
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	return c.JSON(http.StatusOK, resp)
}
