package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindconnect/internal/domain"
)

// @Summary Вход в систему
// @Description Проверяет email и пароль и возвращает токен доступа
// @Tags Авторизация
// @Accept json
// @Produce json
// @Param input body domain.LoginRequest true "Данные для входа"
// @Success 200 {object} domain.AuthResult "Токен и пользователь"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Неверные учетные данные"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input domain.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	result, err := h.services.Auth.Login(c.Request.Context(), input)
	if err != nil {
		h.serviceErrorResponse(c, err, "ошибка при входе")
		return
	}

	successResponse(c, http.StatusOK, result)
}

// @Summary Выход из системы
// @Tags Авторизация
// @Produce json
// @Success 204 {object} nil "Успешный выход"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Security ApiKeyAuth
// @Router /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	if err := h.services.Auth.Logout(c.Request.Context(), *identity); err != nil {
		h.serviceErrorResponse(c, err, "ошибка при выходе")
		return
	}

	noContentResponse(c)
}

// @Summary Восстановление пароля
// @Description Отправляет код для сброса пароля. Ответ одинаков для известных и неизвестных адресов
// @Tags Авторизация
// @Accept json
// @Produce json
// @Param input body domain.ForgotPasswordRequest true "Email"
// @Success 200 {object} messageResponseType "Письмо отправлено"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Router /auth/forgot-password [post]
func (h *Handler) forgotPassword(c *gin.Context) {
	var input domain.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Auth.ForgotPassword(c.Request.Context(), input.Email); err != nil {
		h.serviceErrorResponse(c, err, "ошибка при восстановлении пароля")
		return
	}

	messageResponse(c, http.StatusOK, "если адрес зарегистрирован, на него отправлен код для сброса пароля")
}

// @Summary Сброс пароля
// @Description Устанавливает новый пароль по коду из письма. Код действует один раз в течение часа
// @Tags Авторизация
// @Accept json
// @Produce json
// @Param input body domain.ResetPasswordRequest true "Код и новый пароль"
// @Success 200 {object} messageResponseType "Пароль изменен"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Код недействителен"
// @Router /auth/reset-password [post]
func (h *Handler) resetPassword(c *gin.Context) {
	var input domain.ResetPasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Auth.ResetPassword(c.Request.Context(), input); err != nil {
		h.serviceErrorResponse(c, err, "ошибка при сбросе пароля")
		return
	}

	messageResponse(c, http.StatusOK, "пароль изменен")
}

// @Summary Смена пароля
// @Tags Кабинет психолога
// @Accept json
// @Produce json
// @Param input body domain.PasswordUpdateDTO true "Текущий и новый пароль"
// @Success 200 {object} messageResponseType "Пароль изменен"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Неверный текущий пароль"
// @Security ApiKeyAuth
// @Router /portal/settings/change-password [post]
func (h *Handler) changePassword(c *gin.Context) {
	var input domain.PasswordUpdateDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	identity, err := getIdentity(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	if err := h.services.Auth.ChangePassword(c.Request.Context(), identity.UserID, input); err != nil {
		h.serviceErrorResponse(c, err, "ошибка при смене пароля")
		return
	}

	messageResponse(c, http.StatusOK, "пароль изменен")
}
