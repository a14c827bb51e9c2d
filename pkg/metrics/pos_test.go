package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPOSMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPOSMetrics(reg)
	metrics.IncSale("BOLETA", "EFECTIVO")
	metrics.AddRevenue("BOLETA", 67.26)
	metrics.ObserveCheckout("EFECTIVO", 120*time.Millisecond)
	metrics.IncFailure("insufficient_stock")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "pos_sales_total", "voucher_type", "BOLETA"); err != nil {
		t.Fatalf("fetch sales: %v", err)
	} else if got != 1 {
		t.Fatalf("expected sales=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "pos_revenue_soles", "voucher_type", "BOLETA"); err != nil {
		t.Fatalf("fetch revenue: %v", err)
	} else if got != 67.26 {
		t.Fatalf("expected revenue=67.26, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "pos_checkout_failures", "reason", "insufficient_stock"); err != nil {
		t.Fatalf("fetch failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failures=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "pos_checkout_duration_seconds", "payment_method", "EFECTIVO"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestPOSMetricsNilRegistererIsNoop(t *testing.T) {
	metrics := NewPOSMetrics(nil)
	metrics.IncSale("FACTURA", "TARJETA")
	metrics.AddRevenue("FACTURA", 10)
	metrics.ObserveCheckout("TARJETA", time.Second)
	metrics.IncFailure("cart_expired")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
