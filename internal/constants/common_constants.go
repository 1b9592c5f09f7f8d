package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixAircraftCategory CachePrefix = "ACFT_CAT_"
)

// UsagePeriod is an FR24 usage reporting window.
type UsagePeriod string

const (
	UsagePeriod24h UsagePeriod = "24h"
	UsagePeriod7d  UsagePeriod = "7d"
	UsagePeriod30d UsagePeriod = "30d"
	UsagePeriod1y  UsagePeriod = "1y"
)

// ParseUsagePeriod validates a period string.
func ParseUsagePeriod(s string) (UsagePeriod, bool) {
	switch p := UsagePeriod(s); p {
	case UsagePeriod24h, UsagePeriod7d, UsagePeriod30d, UsagePeriod1y:
		return p, true
	}
	return "", false
}
