// Package ports declares the driven-side interfaces of the library: contracts
// that adapters (memory, Redis, ...) implement so hosts can swap
// infrastructure without touching machine logic.
package ports
