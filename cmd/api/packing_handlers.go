package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/api"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/logging"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/middleware"

	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/packing/application"
)

func registerStationHandler(service *application.CoordinatorService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.RegisterStationCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		station, err := service.RegisterStation(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusCreated, station)
	}
}

func getStationHandler(service *application.CoordinatorService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		station, err := service.Get(c.Request.Context(), c.Query("warehouseId"), c.Param("stationCode"))
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, station)
	}
}

func listStationsHandler(service *application.CoordinatorService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		paging := api.ParsePagination(c)
		query := application.ListStationsQuery{
			WarehouseID: c.Query("warehouseId"),
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

func assignPackerHandler(service *application.CoordinatorService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.AssignPackerCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cmd.StationCode = c.Param("stationCode")

		station, err := service.AssignPacker(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, station)
	}
}

func startSessionHandler(service *application.CoordinatorService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.StartSessionCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cmd.StationCode = c.Param("stationCode")

		station, err := service.StartSession(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusCreated, station)
	}
}

func packItemHandler(service *application.CoordinatorService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.PackItemCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cmd.StationCode = c.Param("stationCode")

		station, err := service.PackItem(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, station)
	}
}

func verifyWeightHandler(service *application.CoordinatorService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.VerifyWeightCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cmd.StationCode = c.Param("stationCode")

		check, err := service.VerifyWeight(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, check)
	}
}

func completeSessionHandler(service *application.CoordinatorService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.CompleteSessionCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cmd.StationCode = c.Param("stationCode")

		session, err := service.CompleteSession(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

func releaseStationHandler(service *application.CoordinatorService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.ReleaseStationCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cmd.StationCode = c.Param("stationCode")

		station, err := service.ReleaseStation(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, station)
	}
}

func stationOfflineHandler(service *application.CoordinatorService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.SetStationOfflineCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cmd.StationCode = c.Param("stationCode")

		station, err := service.SetOffline(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, station)
	}
}

func stationOnlineHandler(service *application.CoordinatorService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.SetStationOnlineCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cmd.StationCode = c.Param("stationCode")

		station, err := service.SetOnline(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, station)
	}
}
