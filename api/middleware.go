package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/solnguyen93/flightcast/internal/domain"
	"github.com/solnguyen93/flightcast/internal/service/auth"
	"github.com/solnguyen93/flightcast/internal/session"
)

const (
	ctxSessionKey = "flightcast.session"
	ctxUserKey    = "flightcast.user"
)

// RouteRules is the declarative access-control configuration: paths only a
// signed-in user may hit, and paths only a guest may hit. Everything else
// is open to both states.
type RouteRules struct {
	AuthOnly  map[string]bool
	GuestOnly map[string]bool
}

// DefaultRouteRules mirrors the visibility matrix of the route table.
func DefaultRouteRules() RouteRules {
	return RouteRules{
		AuthOnly: map[string]bool{
			"/logout":        true,
			"/users/profile": true,
			"/users/delete":  true,
		},
		GuestOnly: map[string]bool{
			"/login":  true,
			"/signup": true,
		},
	}
}

// SessionMiddleware loads the typed session for the request cookie (minting
// one when absent) and persists it after the handlers run.
func SessionMiddleware(store *session.Store, cookieName string, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cookieName)
		sess, err := store.Load(c.Request.Context(), id)
		if err != nil {
			log.WithError(err).Error("failed to load session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": "failure", "message": "session unavailable"})
			return
		}
		if sess.ID != id {
			c.SetCookie(cookieName, sess.ID, 0, "/", "", false, true)
		}
		c.Set(ctxSessionKey, sess)

		c.Next()

		if err := store.Save(c.Request.Context(), sess); err != nil {
			log.WithError(err).Error("failed to save session")
		}
	}
}

// AccessController resolves the principal once per request and enforces the
// route rules before any handler runs. Handlers cannot bypass it: they only
// ever see a request this check let through.
func AccessController(users auth.AuthUseCase, rules RouteRules, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)

		var user *domain.User
		if sess.UserID != 0 {
			u, err := users.GetByID(c.Request.Context(), sess.UserID)
			switch {
			case err == nil:
				user = u
			case errors.Is(err, domain.ErrNotFound):
				// Account deleted underneath the session.
				sess.UserID = 0
			default:
				log.WithError(err).Error("failed to resolve principal")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": "failure", "message": "internal error"})
				return
			}
		}
		if user != nil {
			c.Set(ctxUserKey, user)
		}

		path := c.Request.URL.Path
		if user == nil && rules.AuthOnly[path] {
			sess.Flash("danger", "Access unauthorized.")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		if user != nil && rules.GuestOnly[path] {
			sess.Flash("danger", "Please log out to access this page.")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Next()
	}
}

// SessionFrom returns the request's session; the session middleware always
// runs first, so this cannot miss.
func SessionFrom(c *gin.Context) *session.Session {
	return c.MustGet(ctxSessionKey).(*session.Session)
}

// UserFrom returns the resolved principal, or nil for a guest.
func UserFrom(c *gin.Context) *domain.User {
	if v, ok := c.Get(ctxUserKey); ok {
		return v.(*domain.User)
	}
	return nil
}
