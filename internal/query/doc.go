// Package query derives what a skill list shows from a snapshot of records
// and a view: filtering, ordering, month grouping and picker facets. Nothing
// here touches storage; callers pass records in and get a Projection back.
package query
