package network

import "jiraiya/sources/platform"

type ProxyConfig struct {
	ProxyAddress   string
	ProxyUser      string
	ProxyPass      string
	TimeoutSeconds int
}

func NewProxyConfig() *ProxyConfig {
	return &ProxyConfig{
		ProxyAddress:   platform.Get("PROXY_ADDRESS", ""),
		ProxyUser:      platform.Get("PROXY_USER", ""),
		ProxyPass:      platform.Get("PROXY_PASS", ""),
		TimeoutSeconds: platform.GetAsInt("HTTP_TIMEOUT_SECONDS", 120),
	}
}

// Enabled reports whether outbound traffic goes through SOCKS5. An empty
// PROXY_ADDRESS means direct egress.
func (x *ProxyConfig) Enabled() bool {
	return x.ProxyAddress != ""
}
