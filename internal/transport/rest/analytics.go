package rest

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindconnect/internal/domain"
)

// @Summary Записать событие аналитики
// @Tags Аналитика
// @Accept json
// @Produce json
// @Param input body domain.TrackEventDTO true "Событие"
// @Success 201 {object} domain.AnalyticsEvent "Записанное событие"
// @Failure 400 {object} errorResponseBody "Неизвестный тип события"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /analytics/events [post]
func (h *Handler) trackEvent(c *gin.Context) {
	var input domain.TrackEventDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}
	if input.SessionID == "" {
		input.SessionID = sessionID(c)
	}
	if input.Referrer == "" {
		input.Referrer = c.Request.Referer()
	}

	event, err := h.services.Analytics.Track(c.Request.Context(), input)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при записи события")
		return
	}

	createdResponse(c, event)
}

// @Summary Аналитика платформы
// @Tags Администрирование
// @Produce json
// @Param range query string false "24h, 7d, 30d, 90d, 365d (по умолчанию 7d)"
// @Success 200 {object} domain.PlatformAnalytics "Сводка"
// @Failure 400 {object} errorResponseBody "Неизвестный период"
// @Security ApiKeyAuth
// @Router /admin/analytics [get]
func (h *Handler) getPlatformAnalytics(c *gin.Context) {
	r, ok := timeRangeParam(c)
	if !ok {
		return
	}

	report, err := h.services.Analytics.Platform(c.Request.Context(), r)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при расчете аналитики")
		return
	}

	successResponse(c, http.StatusOK, report)
}

// @Summary Выгрузка событий в CSV
// @Tags Администрирование
// @Produce text/csv
// @Param range query string false "24h, 7d, 30d, 90d, 365d (по умолчанию 7d)"
// @Success 200 {string} string "CSV файл"
// @Failure 400 {object} errorResponseBody "Неизвестный период"
// @Security ApiKeyAuth
// @Router /admin/analytics/export [get]
func (h *Handler) exportAnalytics(c *gin.Context) {
	r, ok := timeRangeParam(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.services.Analytics.ExportCSV(c.Request.Context(), r, &buf); err != nil {
		h.logger.Error("ошибка при выгрузке событий", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	filename := fmt.Sprintf("analytics-%s-%s.csv", r, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
