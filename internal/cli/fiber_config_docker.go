//go:build docker

package cli

import "github.com/gofiber/fiber/v3"

// createFiberConfig returns Fiber configuration for container deployments,
// where the ingress proxy always sets X-Forwarded-For.
func createFiberConfig(appName string) fiber.Config {
	return fiber.Config{
		AppName:     appName,
		ProxyHeader: fiber.HeaderXForwardedFor,
		TrustProxy:  true,
		TrustProxyConfig: fiber.TrustProxyConfig{
			Private: true,
		},
	}
}
