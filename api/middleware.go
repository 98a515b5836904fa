package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	principalKey    = "principal"
	requestIDHeader = "X-Request-ID"
)

// Claims is the token payload issued by the auth service. Subject holds the
// numeric user id.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Authenticate resolves the bearer token into a domain.Principal.
func Authenticate(secret string) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			unauthorized(c, "missing bearer token")
			return
		}

		var claims Claims
		token, err := parser.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), &claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil || !token.Valid {
			unauthorized(c, "invalid token")
			return
		}

		principal, err := claims.principal()
		if err != nil {
			unauthorized(c, err.Error())
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

func (c Claims) principal() (domain.Principal, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return domain.Principal{}, errors.New("invalid subject")
	}
	role := domain.Role(c.Role)
	switch role {
	case "":
		role = domain.RoleUser
	case domain.RoleUser, domain.RoleAdmin:
	default:
		return domain.Principal{}, errors.New("unknown role")
	}
	return domain.Principal{ID: id, Role: role, Email: c.Email}, nil
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: message, Code: "unauthorized"})
}

func principalFrom(c *gin.Context) domain.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(domain.Principal); ok {
			return p
		}
	}
	return domain.Principal{}
}

// RequestLogger writes one structured line per request and echoes the
// request id, generating one when the client sent none.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		})
		if p := principalFrom(c); p.ID != 0 {
			entry = entry.WithField("user_id", p.ID)
		}
		if len(c.Errors) > 0 {
			entry.WithField("errors", c.Errors.String()).Error("request failed")
			return
		}
		entry.Info("request")
	}
}
