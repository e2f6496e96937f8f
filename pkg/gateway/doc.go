// Package gateway provides a JSON/HTTP client for the remote payment gateway
// that mints payment intents, validates promotion codes, and reports settled
// intent status.
//
// The client performs no retries and holds no checkout state; it classifies
// every failure into one of four classes (validation, rate-limit, server,
// network) so callers can apply their own retry policy. Only network-class
// failures are retryable: any response the gateway actually returned is final.
//
// The Default constructor provides a lazily-initialized process-wide client
// configured from the environment. Initialization failures are cached, so a
// broken configuration blocks the checkout feature with a single error rather
// than failing on every call.
//
// # Usage
//
//	client, err := gateway.New(gateway.Config{
//		BaseURL: "https://payments.example.com",
//		APIKey:  apiKey,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.CreateIntent(ctx, gateway.CreateIntentRequest{
//		PlanID:       "pro",
//		BillingCycle: "monthly",
//	})
//	if gateway.IsRetryable(err) {
//		// transport failure, safe to retry
//	}
package gateway
