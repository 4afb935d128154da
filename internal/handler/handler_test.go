package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/chain-router/internal/handler"
	"github.com/angeloszaimis/chain-router/internal/router"
	"github.com/angeloszaimis/chain-router/internal/rule"
)

type routeBody struct {
	RequestID string         `json:"request_id"`
	Chain     string         `json:"chain"`
	Handled   bool           `json:"handled"`
	Handler   string         `json:"handler"`
	Position  int            `json:"position"`
	Evaluated int            `json:"evaluated"`
	Decision  *rule.Decision `json:"decision"`
}

var _ = Describe("RouteHandler", func() {
	var (
		mux *chi.Mux
		log *slog.Logger
	)

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))

		r := router.New(log, nil)
		approval, err := rule.ApprovalChain(log)
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Register("approval", approval)).To(Succeed())

		h := handler.NewRouteHandler(log, r)
		mux = chi.NewRouter()
		mux.Post("/chains/{chain}/route", h.Route)
		mux.Get("/chains", h.Chains)
		mux.Get("/health", h.Health)
	})

	post := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}

	Describe("Route", func() {
		It("should return the accepting handler and its decision", func() {
			rec := post("/chains/approval/route", `{"id":"req-7","amount":7}`)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("X-Request-ID")).To(Equal("req-7"))

			var body routeBody
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Handled).To(BeTrue())
			Expect(body.Chain).To(Equal("approval"))
			Expect(body.Handler).To(Equal("Director"))
			Expect(body.Position).To(Equal(2))
			Expect(body.Evaluated).To(Equal(3))
			Expect(body.Decision).NotTo(BeNil())
			Expect(body.Decision.Approver).To(Equal("Director"))
		})

		It("should answer 200 with handled false for an unhandled request", func() {
			rec := post("/chains/approval/route", `{"amount":11}`)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var body routeBody
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Handled).To(BeFalse())
			Expect(body.Handler).To(BeEmpty())
			Expect(body.Position).To(Equal(-1))
			Expect(body.Decision).To(BeNil())
			Expect(body.RequestID).NotTo(BeEmpty())
		})

		DescribeTable("rejecting bad input",
			func(path, payload string, status int) {
				rec := post(path, payload)
				Expect(rec.Code).To(Equal(status))
				Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
			},
			Entry("unknown chain", "/chains/refunds/route", `{"amount":1}`, http.StatusNotFound),
			Entry("malformed JSON", "/chains/approval/route", `{"amount":`, http.StatusBadRequest),
			Entry("missing amount", "/chains/approval/route", `{"id":"x"}`, http.StatusBadRequest),
			Entry("unknown field", "/chains/approval/route", `{"amount":1,"priority":"high"}`, http.StatusBadRequest),
			Entry("second JSON object", "/chains/approval/route", `{"amount":3} {"amount":99}`, http.StatusBadRequest),
			Entry("trailing garbage", "/chains/approval/route", `{"amount":3} garbage`, http.StatusBadRequest),
		)

		It("should accept trailing whitespace after the object", func() {
			rec := post("/chains/approval/route", "{\"amount\":3}\n  ")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var body routeBody
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body.Handler).To(Equal("ProjectManager"))
		})
	})

	Describe("Chains", func() {
		It("should list chains with handler order", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chains", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))

			var chains []router.ChainInfo
			Expect(json.Unmarshal(rec.Body.Bytes(), &chains)).To(Succeed())
			Expect(chains).To(HaveLen(1))
			Expect(chains[0].Handlers).To(Equal([]string{"TeamLead", "ProjectManager", "Director"}))
		})
	})

	Describe("Health", func() {
		It("should return ok", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal("ok"))
		})
	})
})
