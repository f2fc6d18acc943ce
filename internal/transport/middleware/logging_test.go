package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/org-portal/internal/transport/middleware"
)

var _ = Describe("LoggingMiddleware", func() {
	var (
		out     *bytes.Buffer
		handler http.Handler
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		lg := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
		handler = middleware.LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"email":"jane@x.com"}`))
		}))
	})

	It("masks passwords in the logged body and headers", func() {
		body := `{"email":"jane@x.com","password":"hunter22","items":[{"newPassword":"x1y2z3"}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer abc")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusCreated))
		logged := out.String()
		Expect(logged).NotTo(ContainSubstring("hunter22"))
		Expect(logged).NotTo(ContainSubstring("x1y2z3"))
		Expect(logged).NotTo(ContainSubstring("Bearer abc"))
		Expect(logged).To(ContainSubstring("jane@x.com"))
		Expect(logged).To(ContainSubstring(`"status_code":201`))
	})

	It("passes the body through to the handler untouched", func() {
		var seen string
		lg := slog.New(slog.NewTextHandler(out, nil))
		h := middleware.LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			buf := new(bytes.Buffer)
			_, _ = buf.ReadFrom(r.Body)
			seen = buf.String()
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"password":"secret1"}`)))
		Expect(seen).To(Equal(`{"password":"secret1"}`))
	})
})
