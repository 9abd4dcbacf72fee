package rest

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindconnect/internal/domain"
	"mindconnect/internal/storage"
)

const headshotFormField = "headshot"

// @Summary Список профилей
// @Description Все профили независимо от статуса
// @Tags Администрирование
// @Produce json
// @Param status query string false "draft, review, published, unlisted"
// @Param search query string false "Поиск по имени, адресу или email"
// @Param limit query int false "Лимит записей (по умолчанию 20)"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse "Профили"
// @Failure 400 {object} errorResponseBody "Неизвестный статус"
// @Security ApiKeyAuth
// @Router /admin/psychologists [get]
func (h *Handler) getAdminPsychologists(c *gin.Context) {
	limit, offset := listParams(c)
	filter := domain.AdminPsychologistFilter{Limit: limit, Offset: offset}

	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseProfileStatus(raw)
		if err != nil {
			badRequestResponse(c, err.Error())
			return
		}
		filter.Status = &status
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.Search = &search
	}

	items, total, err := h.services.Psychologist.List(c.Request.Context(), filter)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при получении списка профилей")
		return
	}

	paginatedSuccessResponse(c, items, total, offset/limit+1, limit)
}

// @Summary Создать профиль
// @Description Адрес профиля формируется из имени и дополняется номером при совпадении
// @Tags Администрирование
// @Accept json
// @Produce json
// @Param input body domain.CreatePsychologistDTO true "Данные профиля"
// @Success 201 {object} domain.Psychologist "Созданный профиль"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Security ApiKeyAuth
// @Router /admin/psychologists [post]
func (h *Handler) createPsychologist(c *gin.Context) {
	var input domain.CreatePsychologistDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	p, err := h.services.Psychologist.Create(c.Request.Context(), input)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при создании профиля")
		return
	}

	createdResponse(c, p)
}

// @Summary Получить профиль по ID
// @Tags Администрирование
// @Produce json
// @Param id path int true "ID профиля"
// @Success 200 {object} domain.Psychologist "Профиль"
// @Failure 404 {object} errorResponseBody "Профиль не найден"
// @Security ApiKeyAuth
// @Router /admin/psychologists/{id} [get]
func (h *Handler) getPsychologistByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	p, err := h.services.Psychologist.GetByID(c.Request.Context(), id)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при получении профиля")
		return
	}

	successResponse(c, http.StatusOK, p)
}

// @Summary Обновить профиль
// @Description Адрес опубликованного профиля изменить нельзя
// @Tags Администрирование
// @Accept json
// @Produce json
// @Param id path int true "ID профиля"
// @Param input body domain.UpdatePsychologistDTO true "Изменяемые поля"
// @Success 200 {object} domain.Psychologist "Профиль"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 404 {object} errorResponseBody "Профиль не найден"
// @Failure 409 {object} errorResponseBody "Адрес занят или не может быть изменен"
// @Security ApiKeyAuth
// @Router /admin/psychologists/{id} [put]
func (h *Handler) updatePsychologist(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input domain.UpdatePsychologistDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	p, err := h.services.Psychologist.Update(c.Request.Context(), id, input)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при обновлении профиля")
		return
	}

	successResponse(c, http.StatusOK, p)
}

// @Summary Удалить профиль
// @Tags Администрирование
// @Param id path int true "ID профиля"
// @Success 204 {object} nil "Профиль удален"
// @Failure 404 {object} errorResponseBody "Профиль не найден"
// @Security ApiKeyAuth
// @Router /admin/psychologists/{id} [delete]
func (h *Handler) deletePsychologist(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Psychologist.Delete(c.Request.Context(), id); err != nil {
		h.serviceErrorResponse(c, err, "ошибка при удалении профиля")
		return
	}

	noContentResponse(c)
}

// @Summary Изменить статус профиля
// @Tags Администрирование
// @Accept json
// @Produce json
// @Param id path int true "ID профиля"
// @Param input body domain.UpdateStatusDTO true "Новый статус"
// @Success 200 {object} domain.Psychologist "Профиль"
// @Failure 400 {object} errorResponseBody "Неизвестный статус"
// @Security ApiKeyAuth
// @Router /admin/psychologists/{id}/status [patch]
func (h *Handler) updatePsychologistStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input domain.UpdateStatusDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	p, err := h.services.Psychologist.UpdateStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при изменении статуса")
		return
	}

	successResponse(c, http.StatusOK, p)
}

// @Summary Отметить профиль как рекомендуемый
// @Tags Администрирование
// @Accept json
// @Produce json
// @Param id path int true "ID профиля"
// @Param input body domain.ToggleFeaturedDTO true "Признак featured"
// @Success 200 {object} domain.Psychologist "Профиль"
// @Security ApiKeyAuth
// @Router /admin/psychologists/{id}/featured [patch]
func (h *Handler) setPsychologistFeatured(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input domain.ToggleFeaturedDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	p, err := h.services.Psychologist.SetFeatured(c.Request.Context(), id, *input.Featured)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при изменении профиля")
		return
	}

	successResponse(c, http.StatusOK, p)
}

// @Summary Загрузить фотографию
// @Description JPEG, PNG, GIF или WebP до 5 МБ
// @Tags Администрирование
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID профиля"
// @Param headshot formData file true "Фотография"
// @Success 200 {object} map[string]interface{} "URL фотографии"
// @Failure 400 {object} errorResponseBody "Файл не является изображением или слишком большой"
// @Failure 503 {object} errorResponseBody "Хранилище не настроено"
// @Security ApiKeyAuth
// @Router /admin/psychologists/{id}/headshot [post]
func (h *Handler) uploadHeadshot(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	file, err := c.FormFile(headshotFormField)
	if err != nil {
		badRequestResponse(c, "файл не передан")
		return
	}
	if file.Size > storage.MaxImageSize {
		badRequestResponse(c, storage.ErrFileTooLarge.Error())
		return
	}

	src, err := file.Open()
	if err != nil {
		h.logger.Error("ошибка при открытии файла", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, storage.MaxImageSize+1))
	if err != nil {
		h.logger.Error("ошибка при чтении файла", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	url, err := h.services.Psychologist.UploadHeadshot(c.Request.Context(), id, data, file.Filename)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при загрузке фотографии")
		return
	}

	successResponse(c, http.StatusOK, gin.H{"headshot": url})
}
