package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hrplatform/employee-directory/internal/auth"
	"github.com/hrplatform/employee-directory/internal/transport/middleware"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Transport Middleware Suite")
}

var _ = Describe("RequireAdmin", func() {
	var next http.Handler

	BeforeEach(func() {
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	serve := func(identity *auth.Identity) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/employees/sync", nil)
		if identity != nil {
			req = req.WithContext(auth.ContextWithIdentity(req.Context(), identity))
		}
		w := httptest.NewRecorder()
		middleware.RequireAdmin()(next).ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		return body
	}

	It("should pass admins through", func() {
		w := serve(&auth.Identity{Username: "ahassan", IsAdmin: true})

		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("should answer a missing identity with the JSON error envelope", func() {
		w := serve(nil)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(w.Header().Get("Content-Type")).To(Equal("application/json"))

		body := decode(w)
		Expect(body).To(HaveKeyWithValue("message", "unauthorized"))
		Expect(body).To(HaveKeyWithValue("code", BeNumerically("==", http.StatusUnauthorized)))
	})

	It("should answer a non-admin with the JSON error envelope", func() {
		w := serve(&auth.Identity{Username: "jdoe", IsAdmin: false})

		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(w.Header().Get("Content-Type")).To(Equal("application/json"))

		body := decode(w)
		Expect(body).To(HaveKeyWithValue("message", "admin privilege required"))
	})
})
