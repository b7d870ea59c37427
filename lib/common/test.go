// Provide test utilities for the common package
package common

// Initialize a new config object for unittests
func NewTestConfig() Config {
	p := NewConfig([]byte("tokenpoll-unittest"))
	p.RateLimitRuleAPI = NewRateLimitRule(MustParseRate("100000-S"))

	return p
}

// Utility to get a new `common.Endpoint` from a string
func MustParseEndpoint(endpoint string) *Endpoint {
	if ret, err := ParseEndpoint(endpoint); err != nil {
		panic(err)
	} else {
		return ret
	}
}
