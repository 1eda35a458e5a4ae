// Package cabinet turns item pages published by a museum/archive content
// management system into structured records: title, tags, sanitized body,
// labeled fields, and a deduplicated image list.
//
// This package contains domain types, interfaces and the dependency-free
// rules shared by every implementation (URL normalization, responsive image
// source selection, emphasis classification). Implementations live in
// subdirectories named after their primary dependency (e.g., goquery/,
// sqlite/, sjson/).
package cabinet
