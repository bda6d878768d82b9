package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bitbucket.org/grupoavance/lending_backend/config"
	"bitbucket.org/grupoavance/lending_backend/middlewares"
	"bitbucket.org/grupoavance/lending_backend/models"
	"bitbucket.org/grupoavance/lending_backend/models/reports"
	"bitbucket.org/grupoavance/lending_backend/utils"
)

const defaultPort = "8080"

func optionalRouteId(c *gin.Context) (*int, bool) {
	raw := strings.TrimSpace(c.Query("route_id"))
	if raw == "" {
		return nil, true
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &id, true
}

func transactionsSummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		startDate := c.Query("start_date")
		endDate := c.Query("end_date")
		if startDate == "" || endDate == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date are required"})
			return
		}
		routeId, ok := optionalRouteId(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid route_id"})
			return
		}

		summaries, err := reports.GetTransactionsSummary(c.Request.Context(), startDate, endDate, routeId)
		if err != nil {
			config.LogError(config.GetLogger(), "server.go", "transactionsSummaryHandler", "GetTransactionsSummary", nil, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summaries)
	}
}

func bankIncomeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		startDate := c.Query("start_date")
		endDate := c.Query("end_date")
		if startDate == "" || endDate == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date are required"})
			return
		}

		var routeIds []int
		for _, raw := range strings.Split(c.Query("route_ids"), ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			id, err := strconv.Atoi(raw)
			if err != nil || id <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid route_ids"})
				return
			}
			routeIds = append(routeIds, id)
		}
		onlyAbonos := c.Query("only_abonos") == "true" || c.Query("only_abonos") == "1"

		response, err := reports.GetBankIncomeTransactions(c.Request.Context(), startDate, endDate, routeIds, onlyAbonos)
		if err != nil {
			config.LogError(config.GetLogger(), "server.go", "bankIncomeHandler", "GetBankIncomeTransactions", nil, err)
			c.JSON(http.StatusOK, models.MutationResponse{Success: false, Message: err.Error()})
			return
		}
		c.JSON(http.StatusOK, response)
	}
}

func createDiscrepancyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewDiscrepancy
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.DiscrepancyResponse{
				Success: false,
				Message: "invalid request",
				Errors:  map[string]string{"body": err.Error()},
			})
			return
		}

		discrepancy, err := models.CreateDiscrepancy(c.Request.Context(), &input)
		if err != nil {
			c.JSON(http.StatusOK, models.DiscrepancyResponse{Success: false, Message: err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.DiscrepancyResponse{
			Success:     true,
			Discrepancy: discrepancy,
			Message:     "discrepancy created",
		})
	}
}

type statusUpdateInput struct {
	Status models.DiscrepancyStatus `json:"status" binding:"required"`
	Notes  *string                  `json:"notes"`
}

func updateDiscrepancyStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, models.DiscrepancyResponse{Success: false, Message: "invalid id"})
			return
		}
		var input statusUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.DiscrepancyResponse{
				Success: false,
				Message: "invalid request",
				Errors:  map[string]string{"body": err.Error()},
			})
			return
		}

		discrepancy, err := models.UpdateDiscrepancyStatus(c.Request.Context(), id, input.Status, input.Notes)
		if err != nil {
			c.JSON(http.StatusOK, models.DiscrepancyResponse{Success: false, Message: err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.DiscrepancyResponse{
			Success:     true,
			Discrepancy: discrepancy,
			Message:     "status updated",
		})
	}
}

func deleteDiscrepancyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, models.MutationResponse{Success: false, Message: "invalid id"})
			return
		}
		if err := models.DeleteDiscrepancy(c.Request.Context(), id); err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				c.JSON(http.StatusOK, models.MutationResponse{Success: false, Message: "discrepancy not found"})
				return
			}
			c.JSON(http.StatusOK, models.MutationResponse{Success: false, Message: err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.MutationResponse{Success: true, Message: "discrepancy deleted"})
	}
}

func listDiscrepancyFilters(c *gin.Context) (*int, *models.MyDateString, *models.MyDateString, *models.DiscrepancyStatus, error) {
	routeId, ok := optionalRouteId(c)
	if !ok {
		return nil, nil, nil, nil, errors.New("invalid route_id")
	}
	var fromDate, toDate *models.MyDateString
	if raw := c.Query("start_date"); raw != "" {
		var d models.MyDateString
		if err := d.ParseString(raw); err != nil {
			return nil, nil, nil, nil, err
		}
		fromDate = &d
	}
	if raw := c.Query("end_date"); raw != "" {
		var d models.MyDateString
		if err := d.ParseString(raw); err != nil {
			return nil, nil, nil, nil, err
		}
		toDate = &d
	}
	var status *models.DiscrepancyStatus
	if raw := c.Query("status"); raw != "" {
		s := models.DiscrepancyStatus(raw)
		if !s.Valid() {
			return nil, nil, nil, nil, errors.New("invalid status")
		}
		status = &s
	}
	return routeId, fromDate, toDate, status, nil
}

// discrepancyRow decorates a discrepancy with route/lead names for the list
// view; the names resolve through the request's dataloaders, one batched
// query per reference type no matter how long the list is.
type discrepancyRow struct {
	*models.Discrepancy
	RouteName string `json:"route_name"`
	LeadName  string `json:"lead_name"`
}

func listDiscrepanciesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		routeId, fromDate, toDate, status, err := listDiscrepancyFilters(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		discrepancies, err := models.ListDiscrepancies(c.Request.Context(), routeId, fromDate, toDate, status)
		if err != nil {
			config.LogError(config.GetLogger(), "server.go", "listDiscrepanciesHandler", "ListDiscrepancies", nil, err)
			c.JSON(http.StatusOK, models.MutationResponse{Success: false, Message: err.Error()})
			return
		}

		ctx := c.Request.Context()
		rows := make([]*discrepancyRow, 0, len(discrepancies))
		for _, d := range discrepancies {
			row := &discrepancyRow{Discrepancy: d}
			if route, err := middlewares.GetRoute(ctx, d.RouteId); err == nil && route != nil {
				row.RouteName = route.Name
			}
			if d.LeadId > 0 {
				if lead, err := middlewares.GetLead(ctx, d.LeadId); err == nil && lead != nil {
					row.LeadName = lead.FullName()
				}
			}
			rows = append(rows, row)
		}
		c.JSON(http.StatusOK, rows)
	}
}

func weeklyDiscrepancyTotalsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		routeId, fromDate, toDate, status, err := listDiscrepancyFilters(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		discrepancies, err := models.ListDiscrepancies(c.Request.Context(), routeId, fromDate, toDate, status)
		if err != nil {
			c.JSON(http.StatusOK, models.MutationResponse{Success: false, Message: err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"totals":  models.WeeklyDiscrepancyTotals(discrepancies),
		})
	}
}

func corsConfig() cors.Config {
	corsCfg := cors.DefaultConfig()
	if origins := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); origins != "" {
		corsCfg.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsCfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	return corsCfg
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	r := gin.Default()
	r.Use(cors.New(corsConfig()))
	r.Use(middlewares.LoaderMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/reports/transactions-summary", transactionsSummaryHandler())
		api.GET("/reports/bank-income", bankIncomeHandler())
		api.POST("/discrepancies", createDiscrepancyHandler())
		api.PATCH("/discrepancies/:id/status", updateDiscrepancyStatusHandler())
		api.DELETE("/discrepancies/:id", deleteDiscrepancyHandler())
		api.GET("/discrepancies", listDiscrepanciesHandler())
		api.GET("/discrepancies/weekly-totals", weeklyDiscrepancyTotalsHandler())
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Start listening first, then connect backends: Cloud Run requires the
	// container to bind $PORT quickly.
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			config.GetLogger().Fatalf("listen: %s", err)
		}
	}()

	config.ConnectDatabaseWithRetry()
	config.ConnectRedis()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		config.GetLogger().Errorf("server shutdown: %s", err)
	}
}
