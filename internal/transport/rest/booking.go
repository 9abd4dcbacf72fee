package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindconnect/internal/domain"
)

// @Summary Запрос на консультацию
// @Description Создает заявку и отправляет психологу письмо. Если письмо не доставлено, заявка сохраняется со статусом failed
// @Tags Заявки
// @Accept json
// @Produce json
// @Param input body domain.CreateBookingDTO true "Данные заявки"
// @Success 201 {object} domain.Booking "Созданная заявка"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 404 {object} errorResponseBody "Психолог не найден"
// @Failure 409 {object} errorResponseBody "Профиль не опубликован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /bookings [post]
func (h *Handler) createBooking(c *gin.Context) {
	var input domain.CreateBookingDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}
	if input.SourcePage == "" {
		input.SourcePage = c.Request.Referer()
	}

	booking, err := h.services.Booking.Create(c.Request.Context(), input)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при создании заявки")
		return
	}

	createdResponse(c, booking)
}

// @Summary Журнал заявок
// @Description Возвращает заявки с именем психолога и началом сообщения
// @Tags Администрирование
// @Produce json
// @Param psychologist_id query int false "ID психолога"
// @Param status query string false "pending, sent, failed"
// @Param limit query int false "Лимит записей (по умолчанию 20)"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse "Журнал заявок"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /admin/bookings [get]
func (h *Handler) getBookings(c *gin.Context) {
	limit, offset := listParams(c)
	filter := domain.BookingFilter{Limit: limit, Offset: offset}

	if raw := c.Query("psychologist_id"); raw != "" {
		var query struct {
			PsychologistID int64 `form:"psychologist_id" binding:"gt=0"`
		}
		if err := c.ShouldBindQuery(&query); err != nil {
			badRequestResponse(c, "неверный формат ID психолога")
			return
		}
		filter.PsychologistID = &query.PsychologistID
	}

	if raw := c.Query("status"); raw != "" {
		status := domain.DeliveryStatus(raw)
		switch status {
		case domain.DeliveryStatusPending, domain.DeliveryStatusSent, domain.DeliveryStatusFailed:
			filter.Status = &status
		default:
			badRequestResponse(c, "неизвестный статус доставки")
			return
		}
	}

	entries, total, err := h.services.Booking.Log(c.Request.Context(), filter)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при получении заявок")
		return
	}

	paginatedSuccessResponse(c, entries, total, offset/limit+1, limit)
}

// @Summary Повторная отправка заявки
// @Description Повторно отправляет письмо психологу
// @Tags Администрирование
// @Produce json
// @Param id path int true "ID заявки"
// @Success 200 {object} domain.Booking "Заявка после отправки"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 404 {object} errorResponseBody "Заявка не найдена"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /admin/bookings/{id}/resend [post]
func (h *Handler) resendBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	booking, err := h.services.Booking.Resend(c.Request.Context(), id)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при повторной отправке заявки")
		return
	}

	successResponse(c, http.StatusOK, booking)
}
