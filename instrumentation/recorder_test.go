package instrumentation_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gpucoresim/instrumentation"
)

var _ = Describe("Recorder", func() {
	var rec *instrumentation.Recorder

	BeforeEach(func() {
		rec = instrumentation.NewRecorder()
	})

	It("returns zero for counters and timers never touched", func() {
		Expect(rec.GetCounter("nope")).To(BeZero())
		Expect(rec.GetElapsedTimeMs("nope")).To(BeZero())
	})

	It("increments and overwrites counters", func() {
		rec.IncrementCounter("draws", 3)
		rec.IncrementCounter("draws", 4)
		Expect(rec.GetCounter("draws")).To(Equal(uint64(7)))

		rec.SetCounter("draws", 1)
		Expect(rec.GetCounter("draws")).To(Equal(uint64(1)))
	})

	It("records timer durations and averages them", func() {
		rec.StartTimer("frame")
		time.Sleep(time.Millisecond)
		rec.EndTimer("frame")

		Expect(rec.GetElapsedTimeMs("frame")).To(BeNumerically(">", 0))
	})

	It("ignores EndTimer with no matching StartTimer", func() {
		rec.EndTimer("never-started")
		Expect(rec.GetElapsedTimeMs("never-started")).To(BeZero())
	})

	It("computes a cache hit rate of 2/3 from three recorded accesses", func() {
		rec.RecordCacheAccess("l1", true)
		rec.RecordCacheAccess("l1", true)
		rec.RecordCacheAccess("l1", false)

		report := rec.GenerateReport()
		Expect(report.CacheHitRates["l1"]).To(BeNumerically("~", 2.0/3.0, 1e-9))
	})

	It("RegisterCache leaves a cache out of the report until its first access", func() {
		rec.RegisterCache("texture_cache")
		report := rec.GenerateReport()
		Expect(report.CacheHitRates).NotTo(HaveKey("texture_cache"))
		// zero accesses means zero total, so the report omits a rate
		// (division by zero avoided) even though the cache is now
		// tracked - a subsequent access makes it appear.
		rec.RecordCacheAccess("texture_cache", true)
		report = rec.GenerateReport()
		Expect(report.CacheHitRates["texture_cache"]).To(Equal(1.0))
	})

	It("fires a frame_time_ms alert when the latest frame exceeds threshold", func() {
		rec.SetPerformanceThreshold("frame_time_ms", 16.0)
		rec.RecordFrameMetrics(20.0, 100, 1000)

		alerts := rec.CheckPerformanceAlerts()
		Expect(alerts).To(HaveLen(1))
		Expect(alerts[0]).To(ContainSubstring("Frame time exceeded threshold"))
	})

	It("does not fire a frame_time_ms alert under threshold", func() {
		rec.SetPerformanceThreshold("frame_time_ms", 16.0)
		rec.RecordFrameMetrics(10.0, 100, 1000)

		Expect(rec.CheckPerformanceAlerts()).To(BeEmpty())
	})

	It("fires a hit_rate alert when a cache's hit rate drops below threshold", func() {
		rec.SetPerformanceThreshold("l1_hit_rate", 0.7)
		rec.RecordCacheAccess("l1", true)
		rec.RecordCacheAccess("l1", false)
		rec.RecordCacheAccess("l1", false)

		alerts := rec.CheckPerformanceAlerts()
		Expect(alerts).To(HaveLen(1))
		Expect(alerts[0]).To(ContainSubstring("l1 hit rate below threshold"))
	})

	It("does not fire a hit_rate alert at or above threshold", func() {
		rec.SetPerformanceThreshold("l1_hit_rate", 0.6)
		rec.RecordCacheAccess("l1", true)
		rec.RecordCacheAccess("l1", true)
		rec.RecordCacheAccess("l1", false)

		Expect(rec.CheckPerformanceAlerts()).To(BeEmpty())
	})

	It("bounds frame history at MaxHistorySize", func() {
		for i := 0; i < instrumentation.MaxHistorySize+10; i++ {
			rec.RecordFrameMetrics(float64(i), 1, 1)
		}
		report := rec.GenerateReport()
		Expect(report.TotalTriangles).To(Equal(uint64(instrumentation.MaxHistorySize)))
	})

	It("reports zero frame/efficiency metrics with no frames recorded", func() {
		report := rec.GenerateReport()
		Expect(report.AvgFrameTimeMs).To(BeZero())
		Expect(report.PipelineUtilization).To(BeZero())
	})

	It("computes pipeline utilization capped at 1.0", func() {
		rec.RecordFrameMetrics(1.0, 0, 0) // ~1000 fps, way above the 60fps target
		report := rec.GenerateReport()
		Expect(report.PipelineUtilization).To(Equal(1.0))
	})

	It("resets to a clean slate", func() {
		rec.IncrementCounter("x", 1)
		rec.RecordCacheAccess("l1", true)
		rec.ResetAllMetrics()

		Expect(rec.GetCounter("x")).To(BeZero())
		Expect(rec.GenerateReport().CacheHitRates).To(BeEmpty())
	})
})
