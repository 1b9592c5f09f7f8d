package constants

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// SubscriptionPlan is an FR24 API subscription tier.
type SubscriptionPlan string

const (
	PlanNone      SubscriptionPlan = ""
	PlanExplorer  SubscriptionPlan = "EXPLORER"
	PlanEssential SubscriptionPlan = "ESSENTIAL"
	PlanAdvanced  SubscriptionPlan = "ADVANCED"
)

// PlanLimits are the per-plan API quotas. ResponseLimit 0 means unlimited.
type PlanLimits struct {
	ResponseLimit     int
	RequestsPerMinute int
}

var planLimits = map[SubscriptionPlan]PlanLimits{
	PlanExplorer:  {ResponseLimit: 20, RequestsPerMinute: 10},
	PlanEssential: {ResponseLimit: 300, RequestsPerMinute: 30},
	PlanAdvanced:  {ResponseLimit: 0, RequestsPerMinute: 90},
}

// ParseSubscriptionPlan is case-insensitive. The empty string is PlanNone.
func ParseSubscriptionPlan(s string) (SubscriptionPlan, error) {
	p := SubscriptionPlan(strings.ToUpper(strings.TrimSpace(s)))
	if p == PlanNone {
		return PlanNone, nil
	}
	if _, ok := planLimits[p]; !ok {
		return PlanNone, fmt.Errorf("unknown subscription plan %q", s)
	}
	return p, nil
}

// Limits returns the plan quotas and false for PlanNone.
func (p SubscriptionPlan) Limits() (PlanLimits, bool) {
	l, ok := planLimits[p]
	return l, ok
}

// RequestInterval is the pause between consecutive requests, 60/rpm
// seconds. PlanNone has no pacing.
func (p SubscriptionPlan) RequestInterval() time.Duration {
	l, ok := planLimits[p]
	if !ok || l.RequestsPerMinute <= 0 {
		return 0
	}
	return time.Minute / time.Duration(l.RequestsPerMinute)
}

func (p SubscriptionPlan) String() string {
	if p == PlanNone {
		return "NONE"
	}
	return string(p)
}

// Scan implements the sql.Scanner interface
func (p *SubscriptionPlan) Scan(src interface{}) error {
	if src == nil {
		*p = PlanNone
		return nil
	}
	switch v := src.(type) {
	case string:
		*p = SubscriptionPlan(v)
	case []byte:
		*p = SubscriptionPlan(v)
	default:
		return fmt.Errorf("SubscriptionPlan: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (p SubscriptionPlan) Value() (driver.Value, error) { return string(p), nil }
