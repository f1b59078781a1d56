package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/api"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/logging"
	"github.com/dhirajgiri3/Shipcrowd-sub003/pkg/middleware"

	"github.com/dhirajgiri3/Shipcrowd-sub003/internal/picklist/application"
)

func generatePickListHandler(service *application.EngineService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.GeneratePickListCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		pickList, err := service.Generate(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusCreated, pickList)
	}
}

func getPickListHandler(service *application.EngineService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		pickList, err := service.Get(c.Request.Context(), c.Param("pickListId"))
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, pickList)
	}
}

func listPickListsHandler(service *application.EngineService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		paging := api.ParsePagination(c)
		query := application.ListPickListsQuery{
			WarehouseID: c.Query("warehouseId"),
			Status:      c.Query("status"),
			PickerID:    c.Query("pickerId"),
			OrderID:     c.Query("orderId"),
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

func assignPickListHandler(service *application.EngineService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.AssignPickListCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cmd.PickListID = c.Param("pickListId")

		pickList, err := service.Assign(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, pickList)
	}
}

func startPickingHandler(service *application.EngineService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		cmd := application.StartPickingCommand{PickListID: c.Param("pickListId")}

		pickList, err := service.Start(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, pickList)
	}
}

func recordPickHandler(service *application.EngineService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.RecordPickCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cmd.PickListID = c.Param("pickListId")

		pickList, err := service.RecordPick(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, pickList)
	}
}

func completePickListHandler(service *application.EngineService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		cmd := application.CompletePickListCommand{PickListID: c.Param("pickListId")}

		pickList, err := service.Complete(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, pickList)
	}
}

func cancelPickListHandler(service *application.EngineService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var cmd application.CancelPickListCommand
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cmd.PickListID = c.Param("pickListId")

		pickList, err := service.Cancel(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, pickList)
	}
}
