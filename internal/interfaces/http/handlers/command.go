// internal/interfaces/http/handlers/command.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/inventory-copilot/internal/config"
	"github.com/your-org/inventory-copilot/internal/domain/catalog"
	"github.com/your-org/inventory-copilot/internal/domain/command"
	"github.com/your-org/inventory-copilot/internal/domain/purchase"
	"github.com/your-org/inventory-copilot/internal/domain/staff"
	"github.com/your-org/inventory-copilot/internal/domain/stock"
	"github.com/your-org/inventory-copilot/internal/infrastructure/interpreter"
	"github.com/your-org/inventory-copilot/internal/interfaces/http/middleware"
	"github.com/your-org/inventory-copilot/internal/pkg/logger"
	"gorm.io/gorm"
)

// CommandHandler handles natural-language command endpoints
type CommandHandler struct {
	service *command.Service
	config  *config.Config
}

// CommandRequest is the incoming command payload
type CommandRequest struct {
	Command string `json:"command" binding:"required"`
}

// NewCommandHandler wires the full command engine: resolver, ledger, order
// lifecycle, matcher, snapshot builder, interpreter client and dispatcher.
func NewCommandHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *CommandHandler {
	log := logger.New(cfg.Logging)

	catalogSvc := catalog.NewService(db)
	resolver := catalog.NewResolver(db)
	ledger := stock.NewLedger(db)
	orders := purchase.NewService(db, resolver, ledger)
	matcher := purchase.NewMatcher(db, resolver)
	staffSvc := staff.NewService(db)

	snapshots := command.NewSnapshotBuilder(catalogSvc, ledger, orders, redisClient, cfg.Redis.SnapshotTTL, log)
	dispatcher := command.NewDispatcher(catalogSvc, resolver, ledger, orders, matcher, staffSvc, log)
	client := interpreter.NewClient(cfg.Interpreter, log)

	return &CommandHandler{
		service: command.NewService(client, snapshots, dispatcher, cfg.Interpreter.RequestTimeout, log),
		config:  cfg,
	}
}

// Execute handles POST /commands
func (h *CommandHandler) Execute(c *gin.Context) {
	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Request must include a 'command' field",
		})
		return
	}

	var actor *command.Actor
	if email, ok := middleware.GetEmployeeEmailFromContext(c); ok {
		actor = &command.Actor{Email: email}
	}

	result, err := h.service.Execute(c.Request.Context(), req.Command, actor)
	if err != nil {
		var upstream *command.UpstreamError
		if errors.As(err, &upstream) && upstream.RateLimited {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "The command service is busy right now. Please try again in a moment.",
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"message": "The command service is unavailable right now. Please try again.",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
