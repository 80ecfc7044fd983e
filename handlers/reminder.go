package handlers

import (
	"fmt"
	"net/http"
	"strings"

	recordsRepo "github.com/abhijeetnazar/finance-agent-whatsapp-bot/database/repository/records"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/services/scheduler"
	"github.com/abhijeetnazar/finance-agent-whatsapp-bot/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReminderHandler exposes the scheduler over plain REST, alongside the
// conversational surface.
type ReminderHandler struct {
	Scheduler scheduler.SchedulerService
	Records   recordsRepo.DeliveryRecordRepository
}

func NewReminderHandler(schedulerSvc scheduler.SchedulerService, records recordsRepo.DeliveryRecordRepository) *ReminderHandler {
	return &ReminderHandler{Scheduler: schedulerSvc, Records: records}
}

type scheduleRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Interval    string `json:"interval" binding:"required"`
	Duration    string `json:"duration"`
	Topic       string `json:"topic" binding:"required"`
}

type cancelRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Topic       string `json:"topic"`
}

// ScheduleHandler creates a reminder.
func (h *ReminderHandler) ScheduleHandler(c *gin.Context) {
	logger := getLogger(c)

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	if req.Duration == "" {
		req.Duration = "forever"
	}

	confirmation, err := h.Scheduler.Schedule(c.Request.Context(), req.PhoneNumber, req.Interval, req.Duration, req.Topic)
	if err != nil {
		logger.Error("Failed to schedule reminder", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to schedule reminder", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": confirmation})
}

// CancelHandler removes reminders for a number, optionally by topic.
func (h *ReminderHandler) CancelHandler(c *gin.Context) {
	logger := getLogger(c)

	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	count, err := h.Scheduler.Cancel(c.Request.Context(), req.PhoneNumber, req.Topic)
	if err != nil {
		logger.Error("Failed to cancel reminders", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to cancel reminders", err.Error())
		return
	}

	message := fmt.Sprintf("Successfully stopped %d active reminder(s).", count)
	if count == 0 {
		message = "No active reminders found for your number."
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "removed": count})
}

// ListHandler returns the active reminders for a number.
func (h *ReminderHandler) ListHandler(c *gin.Context) {
	logger := getLogger(c)

	phone := strings.TrimSpace(c.Param("phone"))
	if phone == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "phone is required")
		return
	}

	summaries, err := h.Scheduler.List(c.Request.Context(), phone)
	if err != nil {
		logger.Error("Failed to list reminders", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list reminders", err.Error())
		return
	}
	if len(summaries) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "You have no active scheduled reminders.", "reminders": []string{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": summaries})
}

// HistoryHandler returns the delivery log for a number.
func (h *ReminderHandler) HistoryHandler(c *gin.Context) {
	logger := getLogger(c)

	phone := scheduler.NormalizePhone(c.Param("phone"))
	if phone == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "phone is required")
		return
	}

	records, err := h.Records.GetByPhoneNumber(c.Request.Context(), phone)
	if err != nil {
		logger.Error("Failed to load delivery history", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load delivery history", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": records})
}
