package rest

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindconnect/internal/domain"
)

const (
	authorizationHeader = "Authorization"
	sessionHeader       = "X-Session-ID"
	identityCtx         = "identity"
)

func (h *Handler) loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logger := h.logger.With(
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
		)

		if status >= 500 {
			logger.Error("server error")
		} else if status >= 400 {
			logger.Warn("client error")
		} else {
			logger.Info("request processed")
		}
	}
}

func (h *Handler) errorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, err := range c.Errors {
			h.logger.Error("request error", zap.Error(err))
		}
	}
}

func (h *Handler) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Content-Length, Accept-Encoding, Origin, Accept, User-Agent, X-Requested-With, Cache-Control, Referer, X-Session-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Type, Content-Disposition")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400") // 24 часа

		origin := c.Request.Header.Get("Origin")
		if origin != "" && c.Request.Header.Get(authorizationHeader) != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authorizationHeader)
		if header == "" {
			errorResponse(c, http.StatusUnauthorized, "пустой заголовок авторизации")
			return
		}

		headerParts := strings.Split(header, " ")
		if len(headerParts) != 2 || headerParts[0] != "Bearer" {
			errorResponse(c, http.StatusUnauthorized, "неверный формат заголовка авторизации")
			return
		}

		identity, err := h.services.Auth.ParseToken(c.Request.Context(), headerParts[1])
		if err != nil {
			errorResponse(c, http.StatusUnauthorized, domain.ErrInvalidToken.Error())
			return
		}

		c.Set(identityCtx, identity)

		c.Next()
	}
}

func (h *Handler) adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := getIdentity(c)
		if err != nil {
			unauthorizedResponse(c)
			return
		}

		if identity.Role != domain.UserRoleAdmin {
			forbiddenResponse(c)
			return
		}

		c.Next()
	}
}

// psychologistMiddleware admits psychologists that own a profile.
func (h *Handler) psychologistMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := getIdentity(c)
		if err != nil {
			unauthorizedResponse(c)
			return
		}

		if identity.Role != domain.UserRolePsychologist || identity.PsychologistID == nil {
			forbiddenResponse(c, "доступ запрещен, требуется профиль психолога")
			return
		}

		c.Next()
	}
}

func getIdentity(c *gin.Context) (*domain.Identity, error) {
	value, exists := c.Get(identityCtx)
	if !exists {
		return nil, errors.New("пользователь не авторизован")
	}

	identity, ok := value.(*domain.Identity)
	if !ok || identity == nil {
		return nil, errors.New("некорректные данные авторизации")
	}

	return identity, nil
}

// profileID is only valid behind psychologistMiddleware.
func profileID(c *gin.Context) int64 {
	identity, err := getIdentity(c)
	if err != nil || identity.PsychologistID == nil {
		return 0
	}
	return *identity.PsychologistID
}

func sessionID(c *gin.Context) string {
	if id := c.GetHeader(sessionHeader); id != "" {
		return id
	}
	return c.Query("session_id")
}
