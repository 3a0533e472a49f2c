// Package trustsyndication implements content-trust metadata and syndication
// for a content-management system.
//
// Editors tag content items with trust attributes (role, scope, contact,
// topics, timeliness, audience) and may opt items into an external
// syndication feed. Consumer sites that render syndicated content report
// views back, and the package tracks simple per-item analytics (total views,
// distinct consumer sites).
//
// It exposes a single Service interface over pluggable stores: a
// MetadataStore holding one trust record per content item, a ContentStore for
// the owning items, a TopicResolver for the trust-topics vocabulary, and a
// ContactDirectory for default maintainer contacts. Memory and Postgres
// implementations live under subpackages.
//
// Field Ownership
//
// The metadata edit path and the analytics path write disjoint field sets.
// MetadataStore.Upsert never touches the view counters, and
// MetadataStore.UpdateAnalytics never touches the trust attributes, so
// neither path can clobber the other. The content authority is never stored:
// it is recomputed from the configured site name on every read.
package trustsyndication
