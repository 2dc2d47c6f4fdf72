// Package daktelaextract extracts CRM and contact-center data from the
// Daktela v6 REST API into warehouse-ready CSV files.
//
// An extraction run authenticates with a token login, plans the requested
// tables over the parent/child dependency graph, and streams each table
// page by page: records are flattened, key columns are prefixed with the
// server identity, a deterministic compound id is derived from the natural
// keys, and rows land in one {server}_{table}.csv file plus a JSON
// manifest per table.
//
// # Quick Start
//
// Run an extraction from a config file:
//
//	daktela-extract run --config config.json
//
// with a minimal config:
//
//	{
//	  "username": "api-user",
//	  "password": "secret",
//	  "server": "mycompany",
//	  "from": "-7",
//	  "to": "0",
//	  "tables": "activities,activities_email,tickets,users"
//	}
//
// Dates accept "today"/"0", a negative day count like "-7", or an
// absolute "YYYY-MM-DD"; the window is half-open [from, to).
//
// # Key Packages
//
//	pkg/client     - Daktela v6 API client: login, pagination, retry
//	pkg/tablespec  - table catalog and dependency-ordered planning
//	pkg/transform  - record flattening, key prefixing, compound ids
//	pkg/sink       - CSV + manifest output with full/incremental modes
//	pkg/daterange  - date expression resolution
//	internal/pipeline - run orchestration
package daktelaextract
