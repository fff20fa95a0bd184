package narrative

import (
	"strings"
	"testing"

	"github.com/netpulse-io/netpulse/internal/model"
)

func TestNewProviderDisabled(t *testing.T) {
	p, err := NewProvider(model.NarrativeConfig{})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p != nil {
		t.Errorf("empty provider name should disable generation, got %v", p)
	}
}

func TestNewProviderUnknown(t *testing.T) {
	if _, err := NewProvider(model.NarrativeConfig{Provider: "carrier_pigeon"}); err == nil {
		t.Error("expected an error for an unknown provider")
	}
}

func TestNewProviderOpenAIRequiresKey(t *testing.T) {
	if _, err := NewProvider(model.NarrativeConfig{Provider: "openai"}); err == nil {
		t.Error("expected an error without an API key")
	}

	p, err := NewProvider(model.NarrativeConfig{Provider: "openai", APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("provider name = %q, want openai", p.Name())
	}
}

func TestBuildPrompt(t *testing.T) {
	req := BriefRequest{
		CHI: &model.CHIResult{Score: 27, SignalCount: 15, WindowMinutes: 60},
		Issues: []model.RisingIssue{
			{Topic: "network outage", ProductArea: "Network", CurrentIntensity: 60,
				Velocity: 20, ProjectedIntensity: 100, EstimatedUsers: 6000},
		},
	}

	prompt := buildPrompt(req)
	for _, want := range []string{"27/100", "network outage", "20.0/h", "6000"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptNoData(t *testing.T) {
	prompt := buildPrompt(BriefRequest{})
	if !strings.Contains(prompt, "no data") {
		t.Errorf("prompt missing no-data marker:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Rising issues: none") {
		t.Errorf("prompt missing empty ranking marker:\n%s", prompt)
	}
}
