package main

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timeclock-platform/shift-service/internal/application"
	"github.com/timeclock-platform/shift-service/internal/domain"
	"github.com/timeclock-platform/shift-service/pkg/errors"
	"github.com/timeclock-platform/shift-service/pkg/kafka"
	"github.com/timeclock-platform/shift-service/pkg/logging"
	"github.com/timeclock-platform/shift-service/pkg/middleware"
	"github.com/timeclock-platform/shift-service/pkg/mongodb"
)

const serviceName = "shift-service"

// Config holds application configuration
type Config struct {
	ServerAddr string
	MongoDB    *mongodb.Config
	Kafka      *kafka.Config
}

func loadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8010"),
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "timeclock"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
			Username:       getEnv("MONGODB_USERNAME", ""),
			Password:       getEnv("MONGODB_PASSWORD", ""),
			AuthDB:         getEnv("MONGODB_AUTH_DB", "admin"),
			ReplicaSet:     getEnv("MONGODB_REPLICA_SET", ""),
		},
		Kafka: &kafka.Config{
			Brokers:      []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			ClientID:     "shift-service",
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: -1,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Coordinates are pointers so that a legitimate zero value still passes
// the required check; the longitude/latitude validators bound the range.
type coordinatesRequest struct {
	Longitude *float64 `json:"longitude" binding:"required,longitude"`
	Latitude  *float64 `json:"latitude" binding:"required,latitude"`
}

type startBreakRequest struct {
	BreakKind string   `json:"breakKind" binding:"required,break_kind"`
	Longitude *float64 `json:"longitude" binding:"required,longitude"`
	Latitude  *float64 `json:"latitude" binding:"required,latitude"`
}

func respondError(responder *middleware.ErrorResponder, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		responder.RespondWithAppError(appErr)
	} else {
		responder.RespondInternalError(err)
	}
}

func startShiftHandler(service *application.ShiftApplicationService, logger *logging.Logger, business *middleware.BusinessMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req coordinatesRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		principal := middleware.GetPrincipal(c)
		cmd := application.StartShiftCommand{
			EmployeeID: principal.EmployeeID,
			Longitude:  *req.Longitude,
			Latitude:   *req.Latitude,
		}

		shift, err := service.StartShift(c.Request.Context(), cmd)
		if err != nil {
			respondError(responder, err)
			return
		}

		if business != nil {
			business.RecordShiftStarted()
		}

		c.JSON(http.StatusCreated, shift)
	}
}

func endShiftHandler(service *application.ShiftApplicationService, logger *logging.Logger, business *middleware.BusinessMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req coordinatesRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		principal := middleware.GetPrincipal(c)
		cmd := application.EndShiftCommand{
			EmployeeID: principal.EmployeeID,
			Longitude:  *req.Longitude,
			Latitude:   *req.Latitude,
		}

		shift, err := service.EndShift(c.Request.Context(), cmd)
		if err != nil {
			respondError(responder, err)
			return
		}

		if business != nil {
			business.RecordShiftCompleted(shift.TotalWorkDuration, shift.TotalBreakDuration)
		}

		c.JSON(http.StatusOK, shift)
	}
}

func startBreakHandler(service *application.ShiftApplicationService, logger *logging.Logger, business *middleware.BusinessMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req startBreakRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		principal := middleware.GetPrincipal(c)
		cmd := application.StartBreakCommand{
			EmployeeID: principal.EmployeeID,
			Kind:       domain.BreakKind(req.BreakKind),
			Longitude:  *req.Longitude,
			Latitude:   *req.Latitude,
		}

		shift, err := service.StartBreak(c.Request.Context(), cmd)
		if err != nil {
			respondError(responder, err)
			return
		}

		if business != nil {
			business.RecordBreakStarted(req.BreakKind)
		}

		c.JSON(http.StatusOK, shift)
	}
}

func endBreakHandler(service *application.ShiftApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req coordinatesRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		principal := middleware.GetPrincipal(c)
		cmd := application.EndBreakCommand{
			EmployeeID: principal.EmployeeID,
			Longitude:  *req.Longitude,
			Latitude:   *req.Latitude,
		}

		shift, err := service.EndBreak(c.Request.Context(), cmd)
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, shift)
	}
}

func getCurrentShiftHandler(service *application.ShiftApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		principal := middleware.GetPrincipal(c)
		query := application.GetCurrentShiftQuery{EmployeeID: principal.EmployeeID}

		shift, err := service.GetCurrentShift(c.Request.Context(), query)
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, shift)
	}
}

func listShiftsHandler(service *application.ShiftApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		principal := middleware.GetPrincipal(c)
		query := application.ListShiftsQuery{EmployeeID: principal.EmployeeID}

		shifts, err := service.ListShifts(c.Request.Context(), query)
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, shifts)
	}
}

func listAllShiftsHandler(service *application.ShiftApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		query := application.ListAllShiftsQuery{
			Limit:  limit,
			Offset: offset,
		}

		shifts, err := service.ListAllShifts(c.Request.Context(), query)
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, shifts)
	}
}
