// Package repository define las entidades y contratos de persistencia del
// token service, independientes del driver (Postgres, memoria).
//
// Las implementaciones viven en internal/store/adapters/.
//
//	┌──────────────────────────────────────────────┐
//	│   services/oauth (grants, introspección)     │
//	└──────────────────────────────────────────────┘
//	                      │
//	                      ▼
//	┌──────────────────────────────────────────────┐
//	│   domain/repository (interfaces)             │
//	│   Clients, GrantTypes, AccessTokens, Refresh │
//	└──────────────────────────────────────────────┘
//	                      │
//	           ┌──────────┴──────────┐
//	           ▼                     ▼
//	   ┌──────────────┐      ┌──────────────┐
//	   │ adapters/pg  │      │adapters/mem  │
//	   └──────────────┘      └──────────────┘
//
// Convenciones:
//   - Context siempre es el primer parámetro.
//   - Los valores de token se pasan en forma canónica (UUID en minúsculas).
//   - Un fallo de conexión o de pool se reporta como ErrUnavailable.
package repository
