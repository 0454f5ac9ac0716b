// Package integrations provides HTTP clients for external APIs.
//
// # Overview
//
// This package contains low-level API clients for the services the
// attribution pipeline talks to. Each service has its own subpackage:
//
//   - [crates]: Rust crates.io registry metadata
//   - [licensedata]: canonical license texts from the SPDX license-list-data repository
//
// # Client Pattern
//
// Service clients follow a consistent pattern:
//
//	client := crates.NewClient(backend, 24*time.Hour)
//	info, err := client.FetchCrate(ctx, "serde", false)  // false = use cache
//
// Clients handle:
//   - HTTP requests with a shared timeout and default headers
//   - Response caching (pluggable backend, configurable TTL)
//   - API-specific parsing and error mapping
//
// # Shared Infrastructure
//
// The [Client] type provides shared HTTP functionality used by all
// service clients, including response caching via [cache.Cache].
//
// # Adding a New Service
//
//  1. Create a subpackage: pkg/integrations/<service>/
//  2. Define response structs matching the API schema
//  3. Implement a Client embedding [Client] with a fetch method
//  4. Use [NewClient] for HTTP with caching
//
// [crates]: github.com/relengkit/attributor/pkg/integrations/crates
// [licensedata]: github.com/relengkit/attributor/pkg/integrations/licensedata
// [cache.Cache]: github.com/relengkit/attributor/pkg/cache.Cache
package integrations
