// Package memory provides contextual vendor knowledge for workflow
// decisions. The in-process store stands in for an external vector
// database behind the same interface.
package memory

import (
	"strings"

	"go.uber.org/zap"
)

// Risk profiles attached to vendor context.
const (
	RiskLow     = "LOW"
	RiskMedium  = "MEDIUM"
	RiskHigh    = "HIGH"
	RiskUnknown = "UNKNOWN"
)

// VendorContext is the historical profile returned for a vendor lookup.
type VendorContext struct {
	Risk         string `json:"risk"`
	Category     string `json:"category"`
	AvgDelayDays int    `json:"avg_delay,omitempty"`
}

// ContextProvider retrieves historical context for a vendor. Implemented
// by ContextMemory here and by external knowledge stores in deployments
// that have one.
type ContextProvider interface {
	RetrieveContext(vendorName string) VendorContext
}

// ContextMemory is an in-process vendor knowledge store. Lookups are
// case-insensitive on the trimmed vendor name; unknown vendors resolve
// to a neutral UNKNOWN/General profile rather than an error.
type ContextMemory struct {
	vendorPatterns map[string]VendorContext
	logger         *zap.Logger
}

// NewContextMemory creates a memory seeded with the built-in vendor
// profiles.
func NewContextMemory(logger *zap.Logger) *ContextMemory {
	return &ContextMemory{
		vendorPatterns: map[string]VendorContext{
			"dark web corp":       {Risk: RiskHigh, Category: "Suspicious", AvgDelayDays: 5},
			"aws":                 {Risk: RiskLow, Category: "Infrastructure"},
			"amazon web services": {Risk: RiskLow, Category: "Infrastructure"},
			"mckenzie consulting": {Risk: RiskMedium, Category: "Professional Services"},
		},
		logger: logger,
	}
}

// RetrieveContext returns the stored profile for a vendor, or the
// neutral default when the vendor has no history.
func (m *ContextMemory) RetrieveContext(vendorName string) VendorContext {
	key := strings.TrimSpace(strings.ToLower(vendorName))
	ctx, ok := m.vendorPatterns[key]
	if !ok {
		ctx = VendorContext{Risk: RiskUnknown, Category: "General"}
	}
	m.logger.Debug("Memory retrieval",
		zap.String("vendor", key),
		zap.String("risk", ctx.Risk),
		zap.String("category", ctx.Category))
	return ctx
}

// Remember stores or replaces the profile for a vendor.
func (m *ContextMemory) Remember(vendorName string, ctx VendorContext) {
	key := strings.TrimSpace(strings.ToLower(vendorName))
	if key == "" {
		return
	}
	m.vendorPatterns[key] = ctx
}

// Snapshot returns a copy of all stored profiles keyed by vendor name.
func (m *ContextMemory) Snapshot() map[string]VendorContext {
	out := make(map[string]VendorContext, len(m.vendorPatterns))
	for k, v := range m.vendorPatterns {
		out[k] = v
	}
	return out
}
