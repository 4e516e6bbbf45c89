package config

import (
	"testing"
	"time"

	"github.com/contacerta/backend/internal/domain/valueobject"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Database.Driver != "postgres" {
		t.Errorf("Database.Driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Billing.BillingDay != valueobject.DefaultBillingDay {
		t.Errorf("Billing.BillingDay = %d, want %d", cfg.Billing.BillingDay, valueobject.DefaultBillingDay)
	}
	if cfg.Billing.LimitPolicy != "reject" {
		t.Errorf("Billing.LimitPolicy = %q, want reject", cfg.Billing.LimitPolicy)
	}
	if cfg.Billing.PruneEmptyInvoices {
		t.Error("Billing.PruneEmptyInvoices should default to false")
	}
	if len(cfg.Events.KafkaBrokers) != 0 {
		t.Errorf("Events.KafkaBrokers = %v, want none", cfg.Events.KafkaBrokers)
	}
	if cfg.JWT.AccessTokenExpiry != 15*time.Minute {
		t.Errorf("JWT.AccessTokenExpiry = %v, want 15m", cfg.JWT.AccessTokenExpiry)
	}
	if cfg.Password.BcryptCost != 12 || cfg.Password.MinLength != 8 {
		t.Errorf("Password = %+v, want cost 12 and minimum length 8", cfg.Password)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("BILLING_DAY", "10")
	t.Setenv("LIMIT_POLICY", "allow")
	t.Setenv("PRUNE_EMPTY_INVOICES", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("PASSWORD_MIN_LENGTH", "12")

	cfg := Load()

	if cfg.Billing.BillingDay != 10 {
		t.Errorf("Billing.BillingDay = %d, want 10", cfg.Billing.BillingDay)
	}
	if cfg.Billing.LimitPolicy != "allow" {
		t.Errorf("Billing.LimitPolicy = %q, want allow", cfg.Billing.LimitPolicy)
	}
	if !cfg.Billing.PruneEmptyInvoices {
		t.Error("Billing.PruneEmptyInvoices should be true")
	}
	if len(cfg.Events.KafkaBrokers) != 2 || cfg.Events.KafkaBrokers[1] != "kafka-2:9092" {
		t.Errorf("Events.KafkaBrokers = %v", cfg.Events.KafkaBrokers)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want fallback 8080", cfg.Server.Port)
	}
	if cfg.Password.BcryptCost != 10 || cfg.Password.MinLength != 12 {
		t.Errorf("Password = %+v, want cost 10 and minimum length 12", cfg.Password)
	}
}

func TestBillingConfig_Policy(t *testing.T) {
	tests := []struct {
		name   string
		config BillingConfig
		want   valueobject.BillingPolicy
	}{
		{
			name:   "valid values",
			config: BillingConfig{BillingDay: 10, LimitPolicy: "ALLOW", PruneEmptyInvoices: true},
			want:   valueobject.BillingPolicy{BillingDay: 10, LimitPolicy: valueobject.LimitPolicyAllow, PruneEmptyInvoices: true},
		},
		{
			name:   "billing day out of range falls back",
			config: BillingConfig{BillingDay: 31, LimitPolicy: "reject"},
			want:   valueobject.DefaultBillingPolicy(),
		},
		{
			name:   "unknown limit policy falls back",
			config: BillingConfig{BillingDay: 6, LimitPolicy: "sometimes"},
			want:   valueobject.DefaultBillingPolicy(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.config.Policy()
			if got != tt.want {
				t.Errorf("Policy() = %+v, want %+v", got, tt.want)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("Policy() returned an invalid policy: %v", err)
			}
		})
	}
}
