// Package domain contains the core domain model for avie.
//
// The domain is persistence-agnostic: it does not depend on YAML parsing,
// SQL, or the filesystem. Infra/adapters map into/from these types. All
// physical quantities are stored in SI units (m, s, kg, J, W).
package domain
