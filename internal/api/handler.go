package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/config"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/migrate"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/redisclient"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/util"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/verify"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const batchLockTTL = 10 * time.Minute

const failedListLimit = 100

// Handler contains HTTP handlers
type Handler struct {
	cfg        *config.Config
	redis      *redisclient.Client
	categories *migrate.CategoryMigrator
	attributes *migrate.AttributeMigrator
	brands     *migrate.BrandMigrator
	groups     *migrate.GroupMigrator
	priceLists *migrate.PriceListMigrator
	products   *migrate.ProductMigrator
	customers  *migrate.CustomerMigrator
	orders     *migrate.OrderMigrator
	verifier   *verify.Engine
}

// NewHandler creates a new HTTP handler
func NewHandler(
	cfg *config.Config,
	redis *redisclient.Client,
	categories *migrate.CategoryMigrator,
	attributes *migrate.AttributeMigrator,
	brands *migrate.BrandMigrator,
	groups *migrate.GroupMigrator,
	priceLists *migrate.PriceListMigrator,
	products *migrate.ProductMigrator,
	customers *migrate.CustomerMigrator,
	orders *migrate.OrderMigrator,
	verifier *verify.Engine,
) *Handler {
	return &Handler{
		cfg:        cfg,
		redis:      redis,
		categories: categories,
		attributes: attributes,
		brands:     brands,
		groups:     groups,
		priceLists: priceLists,
		products:   products,
		customers:  customers,
		orders:     orders,
		verifier:   verifier,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/categories/migrate", h.migrateCategories)
		v1.POST("/attributes/migrate", h.migrateAttributes)
		v1.POST("/brands/migrate", h.migrateBrands)
		v1.POST("/customer-groups/migrate", h.migrateCustomerGroups)
		v1.POST("/price-lists/migrate", h.migratePriceLists)

		v1.POST("/products/prepare", h.prepareProducts)
		v1.POST("/products/process", h.processProducts)
		v1.POST("/products/retry", h.retryProducts)
		v1.GET("/products/stats", h.productStats)
		v1.GET("/products/failed", h.failedProducts)

		v1.POST("/customers/prepare", h.prepareCustomers)
		v1.POST("/customers/process", h.processCustomers)
		v1.POST("/customers/retry", h.retryCustomers)
		v1.GET("/customers/stats", h.customerStats)
		v1.GET("/customers/failed", h.failedCustomers)

		v1.POST("/orders/prepare", h.prepareOrders)
		v1.POST("/orders/process", h.processOrders)
		v1.POST("/orders/retry", h.retryOrders)
		v1.GET("/orders/stats", h.orderStats)
		v1.GET("/orders/failed", h.failedOrders)
		v1.GET("/orders/validate", h.validateOrderDependencies)

		v1.POST("/verification/init", h.initVerification)
		v1.POST("/verification/populate", h.populateVerification)
		v1.POST("/verification/verify", h.verifyBatch)
		v1.POST("/verification/retry", h.retryVerification)
		v1.GET("/verification/stats", h.verificationStats)
		v1.POST("/verification/weights", h.updateWeights)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// withBatchLock serializes batch processing per entity type: two concurrent
// process calls for the same ledger would double-migrate pending rows.
func (h *Handler) withBatchLock(c *gin.Context, entity string, fn func()) {
	if h.redis != nil {
		acquired, err := h.redis.AcquireBatchLock(c.Request.Context(), entity, batchLockTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to acquire batch lock",
				"details": err.Error(),
			})
			return
		}
		if !acquired {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Another batch is already running for " + entity,
			})
			return
		}
		defer func() {
			_ = h.redis.ReleaseBatchLock(c.Request.Context(), entity)
		}()
	}
	fn()
}

func (h *Handler) batchSize(c *gin.Context, defaultSize int) int {
	if raw := c.Query("batch_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return defaultSize
}

func (h *Handler) migrateCategories(c *gin.Context) {
	result, err := h.categories.Migrate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Category migration failed",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) migrateAttributes(c *gin.Context) {
	result, err := h.attributes.Migrate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Attribute migration failed",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) migrateBrands(c *gin.Context) {
	result, err := h.brands.Migrate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Brand migration failed",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) migrateCustomerGroups(c *gin.Context) {
	result, err := h.groups.Migrate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Customer group migration failed",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) migratePriceLists(c *gin.Context) {
	result, err := h.priceLists.Migrate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Price list migration failed",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) prepareProducts(c *gin.Context) {
	result, err := h.products.Prepare(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Product preparation failed",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) processProducts(c *gin.Context) {
	h.withBatchLock(c, "products", func() {
		result, err := h.products.ProcessBatch(c.Request.Context(),
			h.batchSize(c, h.cfg.Migration.ProductBatchSize))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Product batch failed",
				"details": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

func (h *Handler) retryProducts(c *gin.Context) {
	h.withBatchLock(c, "products", func() {
		result, err := h.products.RetryErrors(c.Request.Context(),
			h.batchSize(c, h.cfg.Migration.ProductBatchSize))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Product retry failed",
				"details": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

func (h *Handler) productStats(c *gin.Context) {
	stats, err := h.products.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to read product stats",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) failedProducts(c *gin.Context) {
	recs, err := h.products.ListFailed(c.Request.Context(), failedListLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list failed products",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(recs), "items": recs})
}

func (h *Handler) prepareCustomers(c *gin.Context) {
	result, err := h.customers.Prepare(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Customer preparation failed",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) processCustomers(c *gin.Context) {
	h.withBatchLock(c, "customers", func() {
		result, err := h.customers.ProcessBatch(c.Request.Context(),
			h.batchSize(c, h.cfg.Migration.CustomerBatchSize))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Customer batch failed",
				"details": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

func (h *Handler) retryCustomers(c *gin.Context) {
	h.withBatchLock(c, "customers", func() {
		result, err := h.customers.RetryErrors(c.Request.Context(),
			h.batchSize(c, h.cfg.Migration.CustomerBatchSize))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Customer retry failed",
				"details": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

func (h *Handler) customerStats(c *gin.Context) {
	stats, err := h.customers.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to read customer stats",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) failedCustomers(c *gin.Context) {
	recs, err := h.customers.ListFailed(c.Request.Context(), failedListLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list failed customers",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(recs), "items": recs})
}

func (h *Handler) prepareOrders(c *gin.Context) {
	result, err := h.orders.Prepare(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Order preparation failed",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) processOrders(c *gin.Context) {
	h.withBatchLock(c, "orders", func() {
		result, err := h.orders.ProcessBatch(c.Request.Context(),
			h.batchSize(c, h.cfg.Migration.OrderBatchSize))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Order batch failed",
				"details": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

func (h *Handler) retryOrders(c *gin.Context) {
	h.withBatchLock(c, "orders", func() {
		result, err := h.orders.RetryErrors(c.Request.Context(),
			h.batchSize(c, h.cfg.Migration.OrderBatchSize))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Order retry failed",
				"details": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

func (h *Handler) orderStats(c *gin.Context) {
	stats, err := h.orders.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to read order stats",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) failedOrders(c *gin.Context) {
	recs, err := h.orders.ListFailed(c.Request.Context(), failedListLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list failed orders",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(recs), "items": recs})
}

func (h *Handler) validateOrderDependencies(c *gin.Context) {
	checks, err := h.orders.ValidateDependencies(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Dependency validation failed",
			"details": err.Error(),
		})
		return
	}

	ready := true
	for _, check := range checks {
		if !check.OK {
			ready = false
			break
		}
	}
	c.JSON(http.StatusOK, gin.H{"ready": ready, "checks": checks})
}

func (h *Handler) initVerification(c *gin.Context) {
	if err := h.verifier.Init(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Verification init failed",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "initialized"})
}

func (h *Handler) populateVerification(c *gin.Context) {
	result, err := h.verifier.Populate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Verification populate failed",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) verifyBatch(c *gin.Context) {
	h.withBatchLock(c, "verification", func() {
		result, err := h.verifier.VerifyBatch(c.Request.Context(),
			h.batchSize(c, h.cfg.Migration.VerifyBatchSize))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Verification batch failed",
				"details": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

func (h *Handler) retryVerification(c *gin.Context) {
	h.withBatchLock(c, "verification", func() {
		result, err := h.verifier.RetryFailed(c.Request.Context(),
			h.batchSize(c, h.cfg.Migration.VerifyBatchSize))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Verification retry failed",
				"details": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

func (h *Handler) verificationStats(c *gin.Context) {
	stats, err := h.verifier.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to read verification stats",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) updateWeights(c *gin.Context) {
	h.withBatchLock(c, "weights", func() {
		result, err := h.verifier.UpdateWeightsBatch(c.Request.Context(),
			h.batchSize(c, h.cfg.Migration.VerifyBatchSize))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Weight update batch failed",
				"details": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
