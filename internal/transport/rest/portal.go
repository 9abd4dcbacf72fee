package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindconnect/internal/domain"
)

// @Summary Сводка кабинета
// @Description Просмотры, уникальные посетители, среднее время на странице и последние заявки
// @Tags Кабинет психолога
// @Produce json
// @Param range query string false "24h, 7d, 30d, 90d, 365d (по умолчанию 7d)"
// @Success 200 {object} domain.PortalDashboard "Сводка"
// @Failure 403 {object} errorResponseBody "Нет профиля психолога"
// @Security ApiKeyAuth
// @Router /portal/dashboard [get]
func (h *Handler) getPortalDashboard(c *gin.Context) {
	r, ok := timeRangeParam(c)
	if !ok {
		return
	}

	report, err := h.services.Analytics.PortalDashboard(c.Request.Context(), profileID(c), r)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при расчете сводки")
		return
	}

	successResponse(c, http.StatusOK, report)
}

// @Summary Аналитика профиля
// @Tags Кабинет психолога
// @Produce json
// @Param range query string false "24h, 7d, 30d, 90d, 365d (по умолчанию 7d)"
// @Success 200 {object} domain.PortalAnalytics "Аналитика"
// @Security ApiKeyAuth
// @Router /portal/analytics [get]
func (h *Handler) getPortalAnalytics(c *gin.Context) {
	r, ok := timeRangeParam(c)
	if !ok {
		return
	}

	report, err := h.services.Analytics.PortalAnalytics(c.Request.Context(), profileID(c), r)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при расчете аналитики")
		return
	}

	successResponse(c, http.StatusOK, report)
}

// @Summary Свой профиль
// @Tags Кабинет психолога
// @Produce json
// @Success 200 {object} domain.Psychologist "Профиль"
// @Security ApiKeyAuth
// @Router /portal/profile [get]
func (h *Handler) getPortalProfile(c *gin.Context) {
	p, err := h.services.Psychologist.GetByID(c.Request.Context(), profileID(c))
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при получении профиля")
		return
	}

	successResponse(c, http.StatusOK, p)
}

// @Summary Обновить свой профиль
// @Tags Кабинет психолога
// @Accept json
// @Produce json
// @Param input body domain.UpdatePsychologistDTO true "Изменяемые поля"
// @Success 200 {object} domain.Psychologist "Профиль"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 409 {object} errorResponseBody "Адрес занят или не может быть изменен"
// @Security ApiKeyAuth
// @Router /portal/profile [put]
func (h *Handler) updatePortalProfile(c *gin.Context) {
	var input domain.UpdatePsychologistDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	p, err := h.services.Psychologist.UpdateProfile(c.Request.Context(), profileID(c), input)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при обновлении профиля")
		return
	}

	successResponse(c, http.StatusOK, p)
}

// @Summary Прием новых клиентов
// @Description Включает или выключает прием и обновляет заметку о доступности
// @Tags Кабинет психолога
// @Accept json
// @Produce json
// @Param input body domain.ToggleAcceptingDTO true "Признак приема"
// @Success 200 {object} domain.Psychologist "Профиль"
// @Security ApiKeyAuth
// @Router /portal/settings/toggle-accepting-clients [put]
func (h *Handler) toggleAcceptingClients(c *gin.Context) {
	var input domain.ToggleAcceptingDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	p, err := h.services.Psychologist.SetAccepting(c.Request.Context(), profileID(c), *input.AcceptingClients)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при изменении профиля")
		return
	}

	successResponse(c, http.StatusOK, p)
}
