package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/api"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/logging"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/middleware"

	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/inventory/application"
)

func registerSKUHandler(service *application.LedgerService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.RegisterSKUCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		record, err := service.RegisterSKU(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusCreated, record)
	}
}

func getInventoryHandler(service *application.LedgerService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		query := application.GetInventoryQuery{
			WarehouseID: c.Query("warehouseId"),
			SKU:         c.Param("sku"),
		}

		record, err := service.GetInventory(c.Request.Context(), query)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func listInventoryHandler(service *application.LedgerService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		paging := api.ParsePagination(c)
		query := application.ListInventoryQuery{
			WarehouseID: c.Query("warehouseId"),
			Limit:       int(paging.GetLimit()),
			Offset:      int(paging.GetOffset()),
		}

		page, err := service.ListInventory(c.Request.Context(), query)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func lowStockHandler(service *application.LedgerService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		records, err := service.GetLowStock(c.Request.Context(), c.Query("warehouseId"))
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"records": records})
	}
}

func movementHistoryHandler(service *application.LedgerService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		paging := api.ParsePagination(c)
		query := application.MovementHistoryQuery{
			WarehouseID: c.Query("warehouseId"),
			SKU:         c.Query("sku"),
			Type:        c.Query("type"),
			ReferenceID: c.Query("referenceId"),
			Limit:       int(paging.GetLimit()),
			Offset:      int(paging.GetOffset()),
		}

		page, err := service.GetMovements(c.Request.Context(), query)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func receiveStockHandler(service *application.LedgerService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.ReceiveStockCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		record, err := service.ReceiveStock(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func adjustStockHandler(service *application.LedgerService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.AdjustStockCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		record, err := service.AdjustStock(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func markDamagedHandler(service *application.LedgerService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.MarkDamagedCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		record, err := service.MarkDamaged(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func discontinueSKUHandler(service *application.LedgerService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.DiscontinueSKUCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		record, err := service.DiscontinueSKU(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func reserveStockHandler(service *application.ReservationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.ReserveStockCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		record, err := service.Reserve(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func releaseReservationHandler(service *application.ReservationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.ReleaseReservationCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		record, err := service.Release(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func consumeReservationHandler(service *application.ReservationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.ConsumeReservationCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		record, err := service.Consume(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}
