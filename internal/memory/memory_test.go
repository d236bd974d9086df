package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRetrieveContext_SeededVendors(t *testing.T) {
	m := NewContextMemory(zap.NewNop())

	tests := []struct {
		name     string
		vendor   string
		risk     string
		category string
	}{
		{"high risk", "Dark Web Corp", RiskHigh, "Suspicious"},
		{"low risk short name", "AWS", RiskLow, "Infrastructure"},
		{"low risk full name", "Amazon Web Services", RiskLow, "Infrastructure"},
		{"medium risk", "McKenzie Consulting", RiskMedium, "Professional Services"},
		{"case and whitespace insensitive", "  dark WEB corp  ", RiskHigh, "Suspicious"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := m.RetrieveContext(tt.vendor)
			assert.Equal(t, tt.risk, ctx.Risk)
			assert.Equal(t, tt.category, ctx.Category)
		})
	}
}

func TestRetrieveContext_UnknownVendorDefault(t *testing.T) {
	m := NewContextMemory(zap.NewNop())

	ctx := m.RetrieveContext("Never Seen Before GmbH")
	assert.Equal(t, RiskUnknown, ctx.Risk)
	assert.Equal(t, "General", ctx.Category)
	assert.Zero(t, ctx.AvgDelayDays)
}

func TestRetrieveContext_DelayMetadata(t *testing.T) {
	m := NewContextMemory(zap.NewNop())

	assert.Equal(t, 5, m.RetrieveContext("dark web corp").AvgDelayDays)
	assert.Zero(t, m.RetrieveContext("aws").AvgDelayDays)
}

func TestRemember_OverridesAndIgnoresEmptyKey(t *testing.T) {
	m := NewContextMemory(zap.NewNop())

	m.Remember("Acme GmbH", VendorContext{Risk: RiskLow, Category: "Tooling"})
	assert.Equal(t, RiskLow, m.RetrieveContext("acme gmbh").Risk)

	m.Remember("AWS", VendorContext{Risk: RiskHigh, Category: "Infrastructure"})
	assert.Equal(t, RiskHigh, m.RetrieveContext("aws").Risk)

	before := len(m.Snapshot())
	m.Remember("   ", VendorContext{Risk: RiskLow})
	assert.Len(t, m.Snapshot(), before)
}

func TestSnapshot_IsACopy(t *testing.T) {
	m := NewContextMemory(zap.NewNop())

	snap := m.Snapshot()
	snap["aws"] = VendorContext{Risk: RiskHigh}

	assert.Equal(t, RiskLow, m.RetrieveContext("aws").Risk)
}
