// Package codec moves skills between a store and the portable JSON export
// format: a single indented array of skill objects, one per record, with
// unknown fields carried through.
package codec

// DefaultExportFile is the file name exports are written to when the caller
// does not pick one.
const DefaultExportFile = "skillData.json"
