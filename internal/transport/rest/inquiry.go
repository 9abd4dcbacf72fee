package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindconnect/internal/domain"
)

// @Summary Обращение
// @Description Сообщение через форму обратной связи или заявка психолога на размещение
// @Tags Обращения
// @Accept json
// @Produce json
// @Param input body domain.CreateInquiryDTO true "Данные обращения"
// @Success 201 {object} domain.Inquiry "Сохраненное обращение"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /inquiries [post]
func (h *Handler) createInquiry(c *gin.Context) {
	var input domain.CreateInquiryDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	inquiry, err := h.services.Inquiry.Create(c.Request.Context(), input)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при сохранении обращения")
		return
	}

	createdResponse(c, inquiry)
}

// @Summary Список обращений
// @Tags Администрирование
// @Produce json
// @Param limit query int false "Лимит записей (по умолчанию 20)"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse "Обращения, новые первыми"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Security ApiKeyAuth
// @Router /admin/inquiries [get]
func (h *Handler) getInquiries(c *gin.Context) {
	limit, offset := listParams(c)

	items, total, err := h.services.Inquiry.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при получении обращений")
		return
	}

	paginatedSuccessResponse(c, items, total, offset/limit+1, limit)
}

// @Summary Содержимое страниц
// @Description Редактируемые блоки главной, "Как это работает", "О нас" и подвала
// @Tags Контент
// @Produce json
// @Success 200 {object} domain.SiteContent "Блоки страниц"
// @Router /content [get]
func (h *Handler) getContent(c *gin.Context) {
	content, err := h.services.Content.Get(c.Request.Context())
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при получении контента")
		return
	}

	successResponse(c, http.StatusOK, content)
}

// @Summary Обновить содержимое страниц
// @Description Заменяет переданные блоки, остальные остаются без изменений
// @Tags Администрирование
// @Accept json
// @Produce json
// @Param input body domain.SiteContent true "Блоки страниц"
// @Success 200 {object} domain.SiteContent "Все блоки после обновления"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Security ApiKeyAuth
// @Router /admin/content [put]
func (h *Handler) updateContent(c *gin.Context) {
	var input domain.SiteContent
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	content, err := h.services.Content.Update(c.Request.Context(), input)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при обновлении контента")
		return
	}

	successResponse(c, http.StatusOK, content)
}
