package health

import (
	"context"
	"strings"
	"time"
)

// StorageProbe pings the primary store. Storage is load-bearing, so the
// probe is critical.
func StorageProbe(ping func(ctx context.Context) error) Probe {
	return Probe{
		Name:     "storage",
		Critical: true,
		Timeout:  2 * time.Second,
		Check: func(ctx context.Context) CheckResult {
			if ping == nil {
				return CheckResult{Status: StatusUnhealthy, Message: "storage not configured"}
			}
			if err := ping(ctx); err != nil {
				return CheckResult{Status: StatusUnhealthy, Message: err.Error()}
			}
			return CheckResult{Status: StatusHealthy}
		},
	}
}

// CredentialProbe checks that an optional capability is configured. Presence
// of the credential is sufficient; absence of an optional capability is not
// a system fault, so an unconfigured probe reports degraded rather than
// unhealthy.
func CredentialProbe(name, credential string) Probe {
	return Probe{
		Name:    name,
		Timeout: time.Second,
		Check: func(context.Context) CheckResult {
			if strings.TrimSpace(credential) == "" {
				return CheckResult{Status: StatusDegraded, Message: "not configured"}
			}
			return CheckResult{Status: StatusHealthy}
		},
	}
}

// ArtifactStoreProbe checks the generated-file snapshot store. Advisory: the
// product works without snapshots, but a configured store that stops
// answering is a fault.
func ArtifactStoreProbe(ping func(ctx context.Context) error) Probe {
	return Probe{
		Name:    "artifact-store",
		Timeout: 3 * time.Second,
		Check: func(ctx context.Context) CheckResult {
			if ping == nil {
				return CheckResult{Status: StatusDegraded, Message: "not configured"}
			}
			if err := ping(ctx); err != nil {
				return CheckResult{Status: StatusUnhealthy, Message: err.Error()}
			}
			return CheckResult{Status: StatusHealthy}
		},
	}
}
