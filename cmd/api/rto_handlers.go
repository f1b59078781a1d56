package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/api"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/logging"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/middleware"

	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/rto/application"
)

func createRTOHandler(service *application.LifecycleService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.CreateRTOCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rto, err := service.Create(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusCreated, rto)
	}
}

func getRTOHandler(service *application.LifecycleService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		rto, err := service.Get(c.Request.Context(), c.Param("rtoId"))
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, rto)
	}
}

func listRTOHandler(service *application.LifecycleService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		paging := api.ParsePagination(c)
		query := application.ListRTOQuery{
			WarehouseID: c.Query("warehouseId"),
			CompanyID:   c.Query("companyId"),
			OrderID:     c.Query("orderId"),
			Status:      c.Query("status"),
			Limit:       int(paging.GetLimit()),
			Offset:      int(paging.GetOffset()),
		}

		page, err := service.List(c.Request.Context(), query)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func rtoNotificationHandler(service *application.LifecycleService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		payload, err := service.GetNotification(c.Request.Context(), c.Param("rtoId"))
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, payload)
	}
}

func rtoInTransitHandler(service *application.LifecycleService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.MarkInTransitCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cmd.RTOID = c.Param("rtoId")

		rto, err := service.MarkInTransit(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, rto)
	}
}

func rtoDeliveredHandler(service *application.LifecycleService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.MarkDeliveredCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cmd.RTOID = c.Param("rtoId")

		rto, err := service.MarkDelivered(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, rto)
	}
}

func rtoRecordQCHandler(service *application.LifecycleService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.RecordQCCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cmd.RTOID = c.Param("rtoId")

		rto, err := service.RecordQC(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, rto)
	}
}

func rtoResolveHandler(service *application.LifecycleService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.ResolveRTOCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cmd.RTOID = c.Param("rtoId")

		rto, err := service.Resolve(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, rto)
	}
}
