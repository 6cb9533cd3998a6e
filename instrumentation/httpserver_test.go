package instrumentation_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gpucoresim/instrumentation"
)

var _ = Describe("Server", func() {
	It("serves a JSON report on /report", func() {
		rec := instrumentation.NewRecorder()
		rec.RecordCacheAccess("l1", true)
		srv := instrumentation.NewServer(rec)

		req := httptest.NewRequest(http.MethodGet, "/report", nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var report instrumentation.Report
		Expect(json.Unmarshal(w.Body.Bytes(), &report)).To(Succeed())
		Expect(report.CacheHitRates["l1"]).To(Equal(1.0))
	})

	It("serves active alerts on /alerts", func() {
		rec := instrumentation.NewRecorder()
		rec.SetPerformanceThreshold("frame_time_ms", 16.0)
		rec.RecordFrameMetrics(30.0, 1, 1)
		srv := instrumentation.NewServer(rec)

		req := httptest.NewRequest(http.MethodGet, "/alerts", nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var body struct {
			Alerts []string `json:"alerts"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Alerts).To(HaveLen(1))
	})
})
