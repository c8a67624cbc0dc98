package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/goto/encoded/core/user"
	"github.com/goto/encoded/pkg/statsd"
)

// UserHeaderCtx propagates the caller identity asserted by the
// identity headers within request context. A request without a
// valid uuid proceeds anonymously.
// use `user.FromContext` function to get the user
func UserHeaderCtx(identity IdentityConfig) mux.MiddlewareFunc {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			usr := user.User{
				UUID:   strings.TrimSpace(r.Header.Get(identity.HeaderKeyUserUUID)),
				Email:  strings.TrimSpace(r.Header.Get(identity.HeaderKeyUserEmail)),
				Groups: splitGroups(r.Header.Get(identity.HeaderKeyUserGroups)),
			}
			if err := usr.Validate(); err != nil {
				usr = user.User{}
			}

			r = r.WithContext(user.NewContext(r.Context(), usr))
			h.ServeHTTP(rw, r)
		})
	}
}

func splitGroups(header string) []string {
	var groups []string
	for _, g := range strings.Split(header, ",") {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	return groups
}

// StatsD intercepts the response and pushes the response time and
// status code of every route.
func StatsD(reporter *statsd.Reporter) mux.MiddlewareFunc {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := responseWriter(w)
			h.ServeHTTP(rw, r)

			route := routeTemplate(r)
			reporter.Timing("responseTime", time.Since(start)).
				Tag("method", r.Method).
				Tag("route", route).
				Publish()
			reporter.Incr("responseStatus").
				Tag("method", r.Method).
				Tag("route", route).
				Tag("status", strconv.Itoa(rw.statusCode)).
				Publish()
		})
	}
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

func responseWriter(w http.ResponseWriter) *interceptedResponseWriter {
	return &interceptedResponseWriter{w, http.StatusOK}
}

type interceptedResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *interceptedResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}
