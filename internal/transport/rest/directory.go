package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mindconnect/internal/directory"
)

// @Summary Каталог психологов
// @Description Фильтрует, сортирует и разбивает на страницы опубликованные профили. Некорректные значения параметров игнорируются
// @Tags Каталог
// @Produce json
// @Param specializations query []string false "Специализации (любая из перечисленных)" collectionFormat(multi)
// @Param languages query []string false "Языки (все перечисленные)" collectionFormat(multi)
// @Param location query string false "Город или формат (Remote)"
// @Param experience_min query int false "Минимальный стаж, лет"
// @Param experience_max query int false "Максимальный стаж, лет"
// @Param accepting_new_clients query bool false "Только принимающие новых клиентов"
// @Param search query string false "Поиск по имени, регалиям, описанию и специализациям"
// @Param availability_note query string false "Подстрока в заметке о доступности"
// @Param sort query string false "relevance, name-asc, name-desc, experience-desc, featured"
// @Param page query int false "Номер страницы (с 1)"
// @Param limit query int false "Размер страницы (по умолчанию 12, не более 100)"
// @Success 200 {object} domain.DirectoryPage "Страница каталога"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /psychologists [get]
func (h *Handler) getPsychologists(c *gin.Context) {
	q := directory.QueryFromValues(c.Request.URL.Query(), h.config.Directory.PageSize)

	page, err := h.services.Directory.Query(c.Request.Context(), q)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при получении каталога")
		return
	}

	successResponse(c, http.StatusOK, page)
}

// @Summary Рекомендуемые психологи
// @Description Возвращает до 8 опубликованных профилей с отметкой featured
// @Tags Каталог
// @Produce json
// @Success 200 {array} domain.Psychologist "Рекомендуемые профили"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /psychologists/featured [get]
func (h *Handler) getFeaturedPsychologists(c *gin.Context) {
	items, err := h.services.Directory.Featured(c.Request.Context())
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при получении рекомендуемых профилей")
		return
	}

	successResponse(c, http.StatusOK, items)
}

// @Summary Список специализаций
// @Description Уникальные специализации опубликованных профилей
// @Tags Каталог
// @Produce json
// @Success 200 {array} string "Специализации"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /psychologists/specializations [get]
func (h *Handler) getSpecializations(c *gin.Context) {
	items, err := h.services.Directory.Specializations(c.Request.Context())
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при получении специализаций")
		return
	}

	successResponse(c, http.StatusOK, items)
}

// @Summary Список языков
// @Description Уникальные языки опубликованных профилей
// @Tags Каталог
// @Produce json
// @Success 200 {array} string "Языки"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /psychologists/languages [get]
func (h *Handler) getLanguages(c *gin.Context) {
	items, err := h.services.Directory.Languages(c.Request.Context())
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при получении языков")
		return
	}

	successResponse(c, http.StatusOK, items)
}

// @Summary Список локаций
// @Description Уникальные локации опубликованных профилей
// @Tags Каталог
// @Produce json
// @Success 200 {array} string "Локации"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /psychologists/locations [get]
func (h *Handler) getLocations(c *gin.Context) {
	items, err := h.services.Directory.Locations(c.Request.Context())
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при получении локаций")
		return
	}

	successResponse(c, http.StatusOK, items)
}

// @Summary Профиль психолога
// @Description Возвращает опубликованный профиль по адресу и учитывает просмотр
// @Tags Каталог
// @Produce json
// @Param slug path string true "Адрес профиля"
// @Param X-Session-ID header string false "Идентификатор сессии посетителя"
// @Success 200 {object} domain.Psychologist "Профиль"
// @Failure 404 {object} errorResponseBody "Профиль не найден"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /psychologists/{slug} [get]
func (h *Handler) getPsychologistBySlug(c *gin.Context) {
	p, err := h.services.Directory.GetBySlug(c.Request.Context(), c.Param("slug"), sessionID(c), c.Request.Referer())
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при получении профиля")
		return
	}

	successResponse(c, http.StatusOK, p)
}
